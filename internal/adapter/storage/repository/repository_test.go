package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sm8ta/customer_microservice/internal/adapter/storage"
	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.OpenAndMigrate(context.Background(), storage.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func categoryPtr(c domain.Category) *domain.Category { return &c }

func newCustomer(email string, category *domain.Category) *domain.Customer {
	birthday := domain.NewDate(1990, time.January, 1)
	now := time.Date(2024, 6, 1, 12, 0, 0, 123456000, time.UTC)
	c := domain.NewCustomer(domain.CustomerFields{
		Name:     strPtr("Juan"),
		Lastname: strPtr("Perez"),
		Category: category,
		Email:    strPtr(email),
		Age:      intPtr(30),
		URL:      strPtr("https://example.com"),
		Birthday: &birthday,
	})
	c.CreatedAt = now
	c.UpdatedAt = now
	return c
}
