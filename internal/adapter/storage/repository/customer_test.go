package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm8ta/customer_microservice/internal/adapter/storage"
	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

func TestCustomerRepository_CreateAndGet(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	input := newCustomer("juan.perez@example.com", categoryPtr(domain.CategoryA))
	created, err := repo.CreateCustomer(ctx, input)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetCustomerByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan", got.Name)
	assert.Equal(t, "Perez", got.Lastname)
	require.NotNil(t, got.Category)
	assert.Equal(t, domain.CategoryA, *got.Category)
	require.NotNil(t, got.Age)
	assert.Equal(t, 30, *got.Age)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, "1990-01-01", got.Birthday.String())
	assert.True(t, got.IsActive)
	assert.True(t, input.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, input.UpdatedAt.Equal(got.UpdatedAt))
}

func TestCustomerRepository_NullableColumns(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	input := newCustomer("sin.categoria@example.com", nil)
	input.Age = nil
	created, err := repo.CreateCustomer(ctx, input)
	require.NoError(t, err)

	got, err := repo.GetCustomerByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.Age)
}

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	_, err := repo.CreateCustomer(ctx, newCustomer("dup@example.com", nil))
	require.NoError(t, err)

	_, err = repo.CreateCustomer(ctx, newCustomer("dup@example.com", nil))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCustomerRepository_GetMissing(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)

	_, err := repo.GetCustomerByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerRepository_ListFilters(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	a := newCustomer("a@example.com", categoryPtr(domain.CategoryA))
	b := newCustomer("b@example.com", categoryPtr(domain.CategoryB))
	b.Name = "Ana"
	inactive := newCustomer("c@example.com", categoryPtr(domain.CategoryA))
	inactive.IsActive = false
	for _, c := range []*domain.Customer{a, b, inactive} {
		_, err := repo.CreateCustomer(ctx, c)
		require.NoError(t, err)
	}

	all, err := repo.ListCustomers(ctx, domain.CustomerFields{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := repo.ListCustomers(ctx, domain.CustomerFields{Category: categoryPtr(domain.CategoryA)})
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)

	active := true
	activeA, err := repo.ListCustomers(ctx, domain.CustomerFields{
		Category: categoryPtr(domain.CategoryA),
		IsActive: &active,
	})
	require.NoError(t, err)
	require.Len(t, activeA, 1)
	assert.Equal(t, "a@example.com", activeA[0].Email)

	none, err := repo.ListCustomers(ctx, domain.CustomerFields{Name: strPtr("Nadie")})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCustomerRepository_UpdatePartial(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	created, err := repo.CreateCustomer(ctx, newCustomer("juan@example.com", categoryPtr(domain.CategoryA)))
	require.NoError(t, err)

	later := created.UpdatedAt.Add(time.Hour)
	updated, err := repo.UpdateCustomer(ctx, created.ID, domain.CustomerFields{
		Name: strPtr("Carlos"),
		Age:  intPtr(35),
	}, later)
	require.NoError(t, err)

	assert.Equal(t, "Carlos", updated.Name)
	assert.Equal(t, 35, *updated.Age)
	assert.Equal(t, created.Lastname, updated.Lastname)
	assert.Equal(t, created.Email, updated.Email)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, later.Equal(updated.UpdatedAt))
}

func TestCustomerRepository_UpdateOnlyTimestamp(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	created, err := repo.CreateCustomer(ctx, newCustomer("juan@example.com", nil))
	require.NoError(t, err)

	later := created.UpdatedAt.Add(time.Minute)
	updated, err := repo.UpdateCustomer(ctx, created.ID, domain.CustomerFields{}, later)
	require.NoError(t, err)
	assert.Equal(t, created.Name, updated.Name)
	assert.True(t, later.Equal(updated.UpdatedAt))
}

func TestCustomerRepository_UpdateErrors(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	first, err := repo.CreateCustomer(ctx, newCustomer("first@example.com", nil))
	require.NoError(t, err)
	_, err = repo.CreateCustomer(ctx, newCustomer("second@example.com", nil))
	require.NoError(t, err)

	_, err = repo.UpdateCustomer(ctx, 999, domain.CustomerFields{Name: strPtr("X")}, time.Now())
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = repo.UpdateCustomer(ctx, first.ID, domain.CustomerFields{Email: strPtr("second@example.com")}, time.Now())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCustomerRepository_Delete(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	created, err := repo.CreateCustomer(ctx, newCustomer("juan@example.com", nil))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCustomer(ctx, created.ID))
	assert.ErrorIs(t, repo.DeleteCustomer(ctx, created.ID), domain.ErrCustomerNotFound)

	_, err = repo.GetCustomerByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerRepository_EmailExists(t *testing.T) {
	repo := NewCustomerRepository(newTestDB(t), storage.DialectSQLite)
	ctx := context.Background()

	created, err := repo.CreateCustomer(ctx, newCustomer("juan@example.com", nil))
	require.NoError(t, err)

	exists, err := repo.EmailExists(ctx, "juan@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "juan@example.com", created.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.EmailExists(ctx, "otro@example.com", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}
