package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

const defaultCacheTTL = 15 * time.Minute

type CustomerService struct {
	repo      ports.CustomerRepository
	validator *CustomerValidator
	logger    ports.LoggerPort
	cache     ports.CachePort
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewCustomerService(
	repo ports.CustomerRepository,
	validator *CustomerValidator,
	logger ports.LoggerPort,
	cache ports.CachePort,
	cacheTTL time.Duration,
) *CustomerService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &CustomerService{
		repo:      repo,
		validator: validator,
		logger:    logger,
		cache:     cache,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

var _ ports.CustomerService = (*CustomerService)(nil)

func (cs *CustomerService) ListCustomers(ctx context.Context, query map[string]any) ([]domain.Customer, error) {
	var filter domain.CustomerFields
	if len(query) > 0 {
		fields, err := cs.validator.Validate(ctx, query, ModeFilter, 0)
		if err != nil {
			cs.logValidation("ListCustomers", err)
			return nil, err
		}
		filter = fields
	}

	customers, err := cs.repo.ListCustomers(ctx, filter)
	if err != nil {
		cs.logger.Error("Failed to list customers", map[string]interface{}{
			"error":  err.Error(),
			"method": "ListCustomers",
		})
		return nil, err
	}
	return customers, nil
}

func (cs *CustomerService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	// The version is read before the row so a fill racing an update or
	// delete lands under a key no later read will use.
	version, cacheable := cs.cacheVersion(ctx, id)
	if cacheable {
		if cached, ok := cs.cachedCustomer(ctx, id, version); ok {
			return cached, nil
		}
	}

	customer, err := cs.repo.GetCustomerByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			cs.logger.Error("Failed to get customer", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
		}
		return nil, err
	}

	if cacheable {
		cs.cacheCustomer(ctx, customer, version)
	}
	return customer, nil
}

func (cs *CustomerService) CreateCustomer(ctx context.Context, payload map[string]any) (*domain.Customer, error) {
	fields, err := cs.validator.Validate(ctx, payload, ModeCreate, 0)
	if err != nil {
		cs.logValidation("CreateCustomer", err)
		return nil, err
	}

	customer := domain.NewCustomer(fields)
	now := cs.timestamp()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	created, err := cs.repo.CreateCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			cs.logger.Info("Create rejected by email constraint", map[string]interface{}{
				"email": customer.Email,
			})
			return nil, emailTakenErrors()
		}
		cs.logger.Error("Failed to create customer in database", map[string]interface{}{
			"error":  err.Error(),
			"method": "CreateCustomer",
		})
		return nil, err
	}

	cs.logger.Info("Customer created", map[string]interface{}{
		"id": created.ID,
	})
	return created, nil
}

func (cs *CustomerService) UpdateCustomer(ctx context.Context, id int64, payload map[string]any) (*domain.Customer, error) {
	if _, err := cs.repo.GetCustomerByID(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			cs.logger.Error("Failed to get customer before update", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
		}
		return nil, err
	}

	fields, err := cs.validator.Validate(ctx, payload, ModeUpdate, id)
	if err != nil {
		cs.logValidation("UpdateCustomer", err)
		return nil, err
	}

	updated, err := cs.repo.UpdateCustomer(ctx, id, fields, cs.timestamp())
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, emailTakenErrors()
		}
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			cs.logger.Error("Failed to update customer", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
		}
		return nil, err
	}

	cs.invalidate(ctx, id)

	cs.logger.Info("Customer updated", map[string]interface{}{
		"id": id,
	})
	return updated, nil
}

func (cs *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := cs.repo.DeleteCustomer(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			cs.logger.Error("Failed to delete customer", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
		}
		return err
	}

	cs.invalidate(ctx, id)

	cs.logger.Info("Customer deleted", map[string]interface{}{
		"id": id,
	})
	return nil
}

// timestamp truncates to microseconds, the precision PostgreSQL keeps.
func (cs *CustomerService) timestamp() time.Time {
	return cs.now().UTC().Truncate(time.Microsecond)
}

// cacheVersion returns the current cache generation for id. A missing
// counter is generation 0. On a cache error the caller skips the cache.
func (cs *CustomerService) cacheVersion(ctx context.Context, id int64) (int64, bool) {
	raw, err := cs.cache.Get(ctx, customerVersionKey(id))
	if errors.Is(err, ports.ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		cs.logger.Warn("Failed to read customer cache version", map[string]interface{}{
			"error": err.Error(),
			"id":    id,
		})
		return 0, false
	}

	version, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		cs.logger.Warn("Corrupt customer cache version", map[string]interface{}{
			"error": err.Error(),
			"id":    id,
		})
		return 0, false
	}
	return version, true
}

func (cs *CustomerService) cachedCustomer(ctx context.Context, id, version int64) (*domain.Customer, bool) {
	data, err := cs.cache.Get(ctx, customerCacheKey(id, version))
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			cs.logger.Warn("Failed to read customer cache", map[string]interface{}{
				"error": err.Error(),
				"id":    id,
			})
		}
		return nil, false
	}

	var cached domain.Customer
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	cs.logger.Debug("Customer found in cache", map[string]interface{}{
		"id": id,
	})
	return &cached, true
}

func (cs *CustomerService) cacheCustomer(ctx context.Context, customer *domain.Customer, version int64) {
	data, err := json.Marshal(customer)
	if err != nil {
		cs.logger.Warn("Failed to marshal customer for cache", map[string]interface{}{
			"error": err.Error(),
			"id":    customer.ID,
		})
		return
	}
	if err := cs.cache.Set(ctx, customerCacheKey(customer.ID, version), data, cs.cacheTTL); err != nil {
		cs.logger.Warn("Failed to cache customer", map[string]interface{}{
			"error": err.Error(),
			"id":    customer.ID,
		})
	}
}

// invalidate moves id to a new cache generation. The counter outlives any
// entry filled under an older generation.
func (cs *CustomerService) invalidate(ctx context.Context, id int64) {
	if _, err := cs.cache.Incr(ctx, customerVersionKey(id), 2*cs.cacheTTL); err != nil {
		cs.logger.Warn("Failed to invalidate customer cache", map[string]interface{}{
			"error": err.Error(),
			"id":    id,
		})
	}
}

func (cs *CustomerService) logValidation(method string, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		cs.logger.Info("Validation failed", map[string]interface{}{
			"method": method,
			"errors": map[string][]string(verrs),
		})
		return
	}
	cs.logger.Error("Validation could not complete", map[string]interface{}{
		"method": method,
		"error":  err.Error(),
	})
}

func customerCacheKey(id, version int64) string {
	return fmt.Sprintf("customer:%d:v%d", id, version)
}

func customerVersionKey(id int64) string {
	return fmt.Sprintf("customer:%d:version", id)
}

func emailTakenErrors() domain.ValidationErrors {
	return domain.ValidationErrors{fieldEmail: {msgEmailTaken}}
}
