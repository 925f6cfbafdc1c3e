package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	logger  ports.LoggerPort
	timeout time.Duration
}

type healthResponse struct {
	Status string `json:"status" example:"ok"`
}

func NewHealthHandler(db Pinger, logger ports.LoggerPort) *HealthHandler {
	return &HealthHandler{
		db:      db,
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("Health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
