package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	prom "github.com/prometheus/client_golang/prometheus"

	_ "github.com/sm8ta/customer_microservice/docs"
	handlers "github.com/sm8ta/customer_microservice/internal/adapter/handler/http"
	"github.com/sm8ta/customer_microservice/internal/adapter/logger"
	"github.com/sm8ta/customer_microservice/internal/adapter/prometheus"
	"github.com/sm8ta/customer_microservice/internal/adapter/redis"
	"github.com/sm8ta/customer_microservice/internal/adapter/storage"
	"github.com/sm8ta/customer_microservice/internal/adapter/storage/repository"
	"github.com/sm8ta/customer_microservice/internal/config"
	"github.com/sm8ta/customer_microservice/internal/core/ports"
	"github.com/sm8ta/customer_microservice/internal/core/services"
)

// @title Customer Microservice API
// @version 1.0
// @description CRUD API for customers with bearer-token login

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env, cfg.App.Name)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Connect and migrate DB
	dialect, err := storage.ParseDialect(cfg.DB.Driver)
	if err != nil {
		log.Fatal("Invalid database driver: ", err)
	}
	db, err := storage.OpenAndMigrate(ctx, dialect, cfg.DB.URL)
	if err != nil {
		log.Fatal("Failed to prepare database: ", err)
	}
	defer db.Close()

	// Cache
	var cacheAdapter ports.CachePort = redis.NewNoopCache()
	if cfg.Redis.Enabled() {
		redisConn, err := redis.Connect(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisConn.Close()
		cacheAdapter = redis.NewRedisAdapter(redisConn)
	} else {
		loggerAdapter.Warn("REDIS_ADDRESS not set, customer cache disabled", nil)
	}

	// Observability
	metrics := prometheus.NewPrometheusAdapter(cfg.App.Name, prom.DefaultRegisterer)

	// Customer
	customerRepo := repository.NewCustomerRepository(db, dialect)
	customerValidator, err := services.NewCustomerValidator(validator.New(), customerRepo)
	if err != nil {
		log.Fatal("Failed to build validator: ", err)
	}
	customerService := services.NewCustomerService(customerRepo, customerValidator, loggerAdapter, cacheAdapter, cfg.Redis.TTL)
	customerHandler := handlers.NewCustomerHandler(customerService, loggerAdapter, metrics)

	// Auth
	userRepo := repository.NewUserRepository(db, dialect)
	tokenService := handlers.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, loggerAdapter)
	authService := services.NewAuthService(userRepo, tokenService, loggerAdapter)
	if cfg.Auth.BootstrapUsername != "" {
		if err := authService.EnsureUser(ctx, cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword); err != nil {
			log.Fatal("Failed to create bootstrap user: ", err)
		}
	}
	authHandler := handlers.NewAuthHandler(authService, loggerAdapter, metrics)

	healthHandler := handlers.NewHealthHandler(db, loggerAdapter)

	// Init router
	router, err := handlers.NewRouter(
		cfg.HTTP,
		tokenService,
		nil,
		customerHandler,
		authHandler,
		healthHandler,
	)
	if err != nil {
		log.Fatal("Error initializing router:", err)
	}

	server := router.Server(cfg.HTTP.ListenAddr())
	serverErr := make(chan error, 1)
	go func() {
		loggerAdapter.Info("Starting the HTTP server", map[string]interface{}{
			"addr": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	loggerAdapter.Info("Application is running", nil)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		loggerAdapter.Error("HTTP server failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	loggerAdapter.Info("Shutting down", map[string]interface{}{
		"timeout": cfg.HTTP.ShutdownTimeout.String(),
	})
	if err := server.Shutdown(shutdownCtx); err != nil {
		loggerAdapter.Error("Graceful shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	loggerAdapter.Info("Application stopped", nil)
}
