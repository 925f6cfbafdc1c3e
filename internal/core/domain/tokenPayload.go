package domain

import (
	"time"

	"github.com/google/uuid"
)

type TokenPayload struct {
	ID        uuid.UUID
	UserID    int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
