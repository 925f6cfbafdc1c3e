package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNewCustomer_DefaultsToActive(t *testing.T) {
	birthday := NewDate(1990, time.January, 1)
	c := NewCustomer(CustomerFields{
		Name:     strPtr("Juan"),
		Lastname: strPtr("Perez"),
		Email:    strPtr("juan.perez@example.com"),
		URL:      strPtr("https://example.com"),
		Birthday: &birthday,
	})

	assert.True(t, c.IsActive)
	assert.Nil(t, c.Category)
	assert.Nil(t, c.Age)
	assert.Equal(t, "Juan", c.Name)
}

func TestCustomer_ApplyLeavesUnsuppliedFields(t *testing.T) {
	category := CategoryB
	c := &Customer{
		ID:       7,
		Name:     "Juan",
		Lastname: "Perez",
		Category: &category,
		Email:    "juan.perez@example.com",
		Age:      intPtr(30),
		IsActive: true,
	}

	inactive := false
	c.Apply(CustomerFields{Name: strPtr("Carlos"), Age: intPtr(35), IsActive: &inactive})

	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Carlos", c.Name)
	assert.Equal(t, "Perez", c.Lastname)
	require.NotNil(t, c.Category)
	assert.Equal(t, CategoryB, *c.Category)
	assert.Equal(t, 35, *c.Age)
	assert.False(t, c.IsActive)
}

func TestCustomerFields_IsEmpty(t *testing.T) {
	assert.True(t, CustomerFields{}.IsEmpty())
	assert.False(t, CustomerFields{Email: strPtr("a@b.co")}.IsEmpty())
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{}
	errs.Add("name", "Name is required.")
	errs.Add("age", "Age must be between 1 and 100.")

	assert.Equal(t, "validation failed: age: Age must be between 1 and 100.; name: Name is required.", errs.Error())
}
