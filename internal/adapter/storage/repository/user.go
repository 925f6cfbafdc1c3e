package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sm8ta/customer_microservice/internal/adapter/storage"
	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

type SQLUserRepository struct {
	db      *sql.DB
	dialect storage.Dialect
	now     func() time.Time
}

func NewUserRepository(db *sql.DB, dialect storage.Dialect) *SQLUserRepository {
	return &SQLUserRepository{
		db:      db,
		dialect: dialect,
		now:     time.Now,
	}
}

func (r *SQLUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (username, password_hash, created_at)
    VALUES (?, ?, ?)
    RETURNING id`

	created := *user
	created.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	err := r.db.QueryRowContext(ctx, rebind(r.dialect, query),
		created.Username, created.PasswordHash, created.CreatedAt).Scan(&created.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

func (r *SQLUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, query), username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		timestamp{&user.CreatedAt},
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
