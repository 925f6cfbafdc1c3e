package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

const (
	msgMissingCredentials = "Missing credentials"
	msgInvalidCredentials = "Invalid credentials"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type AuthHandler struct {
	authService ports.AuthService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

func NewAuthHandler(
	authService ports.AuthService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		metrics:     metrics,
	}
}

// @Summary Log in
// @Description Exchanges a username and password for a bearer access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errorResponse "Missing credentials"
// @Failure 401 {object} errorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {

	// Getting metrics
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("Failed JSON parse in login", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingCredentials):
			newErrorResponse(c, http.StatusBadRequest, msgMissingCredentials)
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.logger.Info("Login failed", map[string]interface{}{
				"username": req.Username,
			})
			newErrorResponse(c, http.StatusUnauthorized, msgInvalidCredentials)
		default:
			h.logger.Error("Login error", map[string]interface{}{
				"username": req.Username,
				"error":    err.Error(),
			})
			newErrorResponse(c, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	h.logger.Info("User logged in successfully", map[string]interface{}{
		"username": req.Username,
	})

	c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}
