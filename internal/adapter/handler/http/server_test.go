package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/sm8ta/customer_microservice/internal/adapter/logger"
	"github.com/sm8ta/customer_microservice/internal/adapter/prometheus"
	"github.com/sm8ta/customer_microservice/internal/adapter/redis"
	"github.com/sm8ta/customer_microservice/internal/adapter/storage"
	"github.com/sm8ta/customer_microservice/internal/adapter/storage/repository"
	"github.com/sm8ta/customer_microservice/internal/config"
	"github.com/sm8ta/customer_microservice/internal/core/services"
)

const (
	testSecret   = "test-secret"
	testUsername = "admin"
	testPassword = "s3cret"
)

type testServer struct {
	router *Router
	tokens *JWTTokenService
	db     *sql.DB
}

func newTestServer(t *testing.T, requireAuth bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := storage.OpenAndMigrate(ctx, storage.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNopLogger()

	customerRepo := repository.NewCustomerRepository(db, storage.DialectSQLite)
	customerValidator, err := services.NewCustomerValidator(validator.New(), customerRepo)
	require.NoError(t, err)
	customerService := services.NewCustomerService(customerRepo, customerValidator, log, redis.NewNoopCache(), time.Minute)

	userRepo := repository.NewUserRepository(db, storage.DialectSQLite)
	tokens := NewJWTTokenService(testSecret, time.Hour, log)
	authService := services.NewAuthService(userRepo, tokens, log)
	require.NoError(t, authService.EnsureUser(ctx, testUsername, testPassword))

	reg := prom.NewRegistry()
	metrics := prometheus.NewPrometheusAdapter("customer_service", reg)

	router, err := NewRouter(
		&config.HTTP{Env: "test", AllowedOrigins: "*", RequireAuth: requireAuth},
		tokens,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		NewCustomerHandler(customerService, log, metrics),
		NewAuthHandler(authService, log, metrics),
		NewHealthHandler(db, log),
	)
	require.NoError(t, err)

	return &testServer{router: router, tokens: tokens, db: db}
}

// do sends body as-is when it is a string and JSON-encodes it otherwise.
func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func validCustomer() map[string]any {
	return map[string]any{
		"name":     "Juan",
		"lastname": "Perez",
		"category": "A",
		"age":      30,
		"email":    "juan.perez@example.com",
		"url":      "https://example.com",
		"birthday": "1990-01-01",
	}
}

func (s *testServer) createCustomer(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	w := s.do(t, http.MethodPost, "/customers", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}
