package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

type CustomerHandler struct {
	customerService ports.CustomerService
	logger          ports.LoggerPort
	metrics         ports.MetricsPort
}

// CustomerRequest documents the accepted body. Handlers bind the raw object so
// unknown keys and nulls can be reported per field.
type CustomerRequest struct {
	Name     string `json:"name" example:"Juan"`
	Lastname string `json:"lastname" example:"Perez"`
	Category string `json:"category,omitempty" example:"A" enums:"A,B,C"`
	Email    string `json:"email" example:"juan.perez@example.com"`
	Age      int    `json:"age,omitempty" example:"30"`
	URL      string `json:"url" example:"https://example.com"`
	Birthday string `json:"birthday" example:"1990-01-01"`
	IsActive bool   `json:"is_active,omitempty" example:"true"`
}

func NewCustomerHandler(
	customerService ports.CustomerService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
		metrics:         metrics,
	}
}

// @Summary List customers
// @Description Every query parameter is an exact-match filter on the field of the same name
// @Tags customers
// @Produce json
// @Param name query string false "Name"
// @Param lastname query string false "Last name"
// @Param category query string false "Category" Enums(A, B, C)
// @Param email query string false "Email"
// @Param age query int false "Age"
// @Param url query string false "URL"
// @Param birthday query string false "Birthday (YYYY-MM-DD)"
// @Param is_active query bool false "Active flag"
// @Success 200 {array} domain.Customer
// @Failure 400 {object} validationErrorResponse "Invalid filter"
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	customers, err := h.customerService.ListCustomers(c.Request.Context(), queryPayload(c.Request.URL.Query()))
	if err != nil {
		h.handleError(c, err, "ListCustomers", 0)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// @Summary Get customer
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} errorResponse "Customer not found"
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, ok := customerID(c)
	if !ok {
		newErrorResponse(c, http.StatusNotFound, msgCustomerNotFound)
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "GetCustomer", id)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "Customer data"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} validationErrorResponse "Validation errors"
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, ok := h.bindPayload(c, "CreateCustomer")
	if !ok {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), payload)
	if err != nil {
		h.handleError(c, err, "CreateCustomer", 0)
		return
	}

	h.logger.Info("Customer created", map[string]interface{}{
		"id":        customer.ID,
		"requester": requester(c),
	})

	c.JSON(http.StatusCreated, customer)
}

// @Summary Update customer
// @Description Partial update: only supplied fields change. Re-sending the customer's own email is accepted; an email held by another customer is a 400
// @Tags customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body CustomerRequest true "Fields to update"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} validationErrorResponse "Validation errors"
// @Failure 404 {object} errorResponse "Customer not found"
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, ok := customerID(c)
	if !ok {
		newErrorResponse(c, http.StatusNotFound, msgCustomerNotFound)
		return
	}

	payload, ok := h.bindPayload(c, "UpdateCustomer")
	if !ok {
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, payload)
	if err != nil {
		h.handleError(c, err, "UpdateCustomer", id)
		return
	}

	h.logger.Info("Customer updated", map[string]interface{}{
		"id":        id,
		"requester": requester(c),
	})

	c.JSON(http.StatusOK, customer)
}

// @Summary Delete customer
// @Tags customers
// @Param id path int true "Customer ID"
// @Success 204 "Deleted"
// @Failure 404 {object} errorResponse "Customer not found"
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, ok := customerID(c)
	if !ok {
		newErrorResponse(c, http.StatusNotFound, msgCustomerNotFound)
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "DeleteCustomer", id)
		return
	}

	h.logger.Info("Customer deleted", map[string]interface{}{
		"id":        id,
		"requester": requester(c),
	})

	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) bindPayload(c *gin.Context, method string) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Info("Failed JSON parse", map[string]interface{}{
			"error":  err.Error(),
			"method": method,
		})
		newErrorResponse(c, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, true
}

func (h *CustomerHandler) handleError(c *gin.Context, err error, method string, id int64) {
	if writeServiceError(c, err) {
		return
	}

	h.logger.Error("Customer request failed", map[string]interface{}{
		"error":  err.Error(),
		"method": method,
		"id":     id,
	})
	newErrorResponse(c, http.StatusInternalServerError, msgInternal)
}

