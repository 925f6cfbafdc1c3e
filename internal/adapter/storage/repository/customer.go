package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sm8ta/customer_microservice/internal/adapter/storage"
	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

const customerColumns = `id, name, lastname, category, age, email, url, birthday, created_at, updated_at, is_active`

type SQLCustomerRepository struct {
	db      *sql.DB
	dialect storage.Dialect
}

func NewCustomerRepository(db *sql.DB, dialect storage.Dialect) *SQLCustomerRepository {
	return &SQLCustomerRepository{
		db:      db,
		dialect: dialect,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c        domain.Customer
		category sql.NullString
		age      sql.NullInt64
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Lastname,
		&category,
		&age,
		&c.Email,
		&c.URL,
		&c.Birthday,
		timestamp{&c.CreatedAt},
		timestamp{&c.UpdatedAt},
		&c.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		cat := domain.Category(category.String)
		c.Category = &cat
	}
	if age.Valid {
		a := int(age.Int64)
		c.Age = &a
	}
	return &c, nil
}

func (r *SQLCustomerRepository) ListCustomers(ctx context.Context, filter domain.CustomerFields) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`

	columns, args := fieldColumns(filter)
	if len(columns) > 0 {
		conds := make([]string, len(columns))
		for i, col := range columns {
			conds[i] = col + " = ?"
		}
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, query), args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (r *SQLCustomerRepository) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`

	c, err := scanCustomer(r.db.QueryRowContext(ctx, rebind(r.dialect, query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *SQLCustomerRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `INSERT INTO customers (name, lastname, category, age, email, url, birthday, created_at, updated_at, is_active)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    RETURNING ` + customerColumns

	created, err := scanCustomer(r.db.QueryRowContext(ctx, rebind(r.dialect, query),
		customer.Name,
		customer.Lastname,
		nullableCategory(customer.Category),
		nullableAge(customer.Age),
		customer.Email,
		customer.URL,
		customer.Birthday,
		customer.CreatedAt.UTC(),
		customer.UpdatedAt.UTC(),
		customer.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return created, nil
}

func (r *SQLCustomerRepository) UpdateCustomer(ctx context.Context, id int64, fields domain.CustomerFields, updatedAt time.Time) (*domain.Customer, error) {
	columns, args := fieldColumns(fields)
	sets := make([]string, 0, len(columns)+1)
	for _, col := range columns {
		sets = append(sets, col+" = ?")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, updatedAt.UTC(), id)

	query := `UPDATE customers SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + customerColumns

	updated, err := scanCustomer(r.db.QueryRowContext(ctx, rebind(r.dialect, query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

func (r *SQLCustomerRepository) DeleteCustomer(ctx context.Context, id int64) error {
	query := `DELETE FROM customers WHERE id = ?`

	result, err := r.db.ExecContext(ctx, rebind(r.dialect, query), id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *SQLCustomerRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM customers WHERE email = ? AND id <> ?`

	var count int64
	if err := r.db.QueryRowContext(ctx, rebind(r.dialect, query), email, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// fieldColumns returns the column names and values of the supplied fields.
// Column names come from this fixed list only, never from caller input.
func fieldColumns(f domain.CustomerFields) ([]string, []any) {
	var (
		columns []string
		args    []any
	)
	add := func(col string, v any) {
		columns = append(columns, col)
		args = append(args, v)
	}

	if f.Name != nil {
		add("name", *f.Name)
	}
	if f.Lastname != nil {
		add("lastname", *f.Lastname)
	}
	if f.Category != nil {
		add("category", string(*f.Category))
	}
	if f.Age != nil {
		add("age", int64(*f.Age))
	}
	if f.Email != nil {
		add("email", *f.Email)
	}
	if f.URL != nil {
		add("url", *f.URL)
	}
	if f.Birthday != nil {
		add("birthday", *f.Birthday)
	}
	if f.IsActive != nil {
		add("is_active", *f.IsActive)
	}
	return columns, args
}

func nullableCategory(c *domain.Category) any {
	if c == nil {
		return nil
	}
	return string(*c)
}

func nullableAge(a *int) any {
	if a == nil {
		return nil
	}
	return int64(*a)
}
