package ports

import (
	"context"
	"time"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

type CustomerRepository interface {
	ListCustomers(ctx context.Context, filter domain.CustomerFields) ([]domain.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, fields domain.CustomerFields, updatedAt time.Time) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	// EmailExists reports whether a customer other than excludeID uses email.
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}

// CustomerService takes raw, unvalidated payloads. Validation failures are
// returned as domain.ValidationErrors.
type CustomerService interface {
	ListCustomers(ctx context.Context, query map[string]any) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, payload map[string]any) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, payload map[string]any) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}
