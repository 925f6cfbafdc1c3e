package domain

import "time"

type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
)

// swagger:model domain.Customer
type Customer struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Juan"`
	Lastname  string    `json:"lastname" example:"Perez"`
	Category  *Category `json:"category" example:"A"`
	Email     string    `json:"email" example:"juan.perez@example.com"`
	Age       *int      `json:"age" example:"30"`
	URL       string    `json:"url" example:"https://example.com"`
	Birthday  Date      `json:"birthday" swaggertype:"string" example:"1990-01-01"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active" example:"true"`
}

// CustomerFields is a validated, possibly partial set of customer fields.
// A nil pointer means the field was not supplied.
type CustomerFields struct {
	Name     *string
	Lastname *string
	Category *Category
	Email    *string
	Age      *int
	URL      *string
	Birthday *Date
	IsActive *bool
}

func (f CustomerFields) IsEmpty() bool {
	return f.Name == nil && f.Lastname == nil && f.Category == nil && f.Email == nil &&
		f.Age == nil && f.URL == nil && f.Birthday == nil && f.IsActive == nil
}

// NewCustomer builds a customer from a fully validated field set.
func NewCustomer(f CustomerFields) *Customer {
	c := &Customer{IsActive: true}
	c.Apply(f)
	return c
}

// Apply overwrites the fields present in f and leaves the rest untouched.
func (c *Customer) Apply(f CustomerFields) {
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Lastname != nil {
		c.Lastname = *f.Lastname
	}
	if f.Category != nil {
		category := *f.Category
		c.Category = &category
	}
	if f.Email != nil {
		c.Email = *f.Email
	}
	if f.Age != nil {
		age := *f.Age
		c.Age = &age
	}
	if f.URL != nil {
		c.URL = *f.URL
	}
	if f.Birthday != nil {
		c.Birthday = *f.Birthday
	}
	if f.IsActive != nil {
		c.IsActive = *f.IsActive
	}
}
