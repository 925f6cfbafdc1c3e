package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
)

const (
	msgCustomerNotFound = "Customer not found"
	msgInvalidJSON      = "Invalid JSON format"
	msgInternal         = "Internal server error"
)

type errorResponse struct {
	Error string `json:"error" example:"Customer not found"`
}

// validationErrorResponse documents the 400 body: field name to messages.
type validationErrorResponse map[string][]string

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{
		Error: message,
	})
}

// writeServiceError renders validation and not-found errors and reports
// whether err was one of them. Anything else is left to the caller.
func writeServiceError(c *gin.Context, err error) bool {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.AbortWithStatusJSON(http.StatusBadRequest, verrs)
		return true
	case errors.Is(err, domain.ErrCustomerNotFound):
		newErrorResponse(c, http.StatusNotFound, msgCustomerNotFound)
		return true
	default:
		return false
	}
}
