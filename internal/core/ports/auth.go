package ports

import (
	"context"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

type TokenService interface {
	CreateToken(user *domain.User) (string, error)
	VerifyToken(token string) (domain.TokenPayload, error)
}

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}
