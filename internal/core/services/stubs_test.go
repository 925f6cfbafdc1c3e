package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[int64]domain.Customer
	nextID    int64
	calls     int
	failWith  error
	// raceEmail makes CreateCustomer report a unique violation, as the store
	// does when a concurrent insert wins.
	raceEmail bool
	// afterGet runs once GetCustomerByID has read the row, outside the lock.
	afterGet func()
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[int64]domain.Customer), nextID: 1}
}

func (r *stubCustomerRepo) ListCustomers(_ context.Context, filter domain.CustomerFields) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failWith != nil {
		return nil, r.failWith
	}

	result := []domain.Customer{}
	for _, c := range r.customers {
		if matches(c, filter) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func matches(c domain.Customer, f domain.CustomerFields) bool {
	if f.Name != nil && c.Name != *f.Name {
		return false
	}
	if f.Lastname != nil && c.Lastname != *f.Lastname {
		return false
	}
	if f.Category != nil && (c.Category == nil || *c.Category != *f.Category) {
		return false
	}
	if f.Email != nil && c.Email != *f.Email {
		return false
	}
	if f.Age != nil && (c.Age == nil || *c.Age != *f.Age) {
		return false
	}
	if f.URL != nil && c.URL != *f.URL {
		return false
	}
	if f.Birthday != nil && !c.Birthday.Equal(*f.Birthday) {
		return false
	}
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	return true
}

func (r *stubCustomerRepo) GetCustomerByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.Lock()
	r.calls++
	failWith := r.failWith
	c, ok := r.customers[id]
	hook := r.afterGet
	r.mu.Unlock()

	if failWith != nil {
		return nil, failWith
	}
	if hook != nil {
		hook()
	}
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *stubCustomerRepo) setAfterGet(hook func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterGet = hook
}

func (r *stubCustomerRepo) CreateCustomer(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	if r.raceEmail {
		return nil, domain.ErrEmailTaken
	}

	c := *customer
	c.ID = r.nextID
	r.nextID++
	r.customers[c.ID] = c
	return &c, nil
}

func (r *stubCustomerRepo) UpdateCustomer(_ context.Context, id int64, fields domain.CustomerFields, updatedAt time.Time) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failWith != nil {
		return nil, r.failWith
	}

	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	c.Apply(fields)
	c.UpdatedAt = updatedAt
	r.customers[id] = c
	return &c, nil
}

func (r *stubCustomerRepo) DeleteCustomer(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failWith != nil {
		return r.failWith
	}

	if _, ok := r.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return false, r.failWith
	}

	for id, c := range r.customers {
		if id != excludeID && c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type stubCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{items: make(map[string][]byte)}
}

func (c *stubCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *stubCache) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(string(c.items[key]), 10, 64)
	n++
	c.items[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (c *stubCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (r *stubUserRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	clone := *user
	clone.ID = r.nextID
	r.nextID++
	r.users[clone.Username] = &clone
	result := clone
	return &result, nil
}

type stubTokenService struct {
	issuedFor []int64
}

func (s *stubTokenService) CreateToken(user *domain.User) (string, error) {
	s.issuedFor = append(s.issuedFor, user.ID)
	return "token-for-" + user.Username, nil
}

func (s *stubTokenService) VerifyToken(string) (domain.TokenPayload, error) {
	return domain.TokenPayload{}, domain.ErrInvalidToken
}
