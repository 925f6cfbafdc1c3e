package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type (
	Container struct {
		App   *App
		Token *Token
		DB    *DB
		HTTP  *HTTP
		Redis *Redis
		Auth  *Auth
	}

	App struct {
		Name string `env:"APP_NAME" envDefault:"customer_service"`
		Env  string `env:"APP_ENV" envDefault:"local"`
	}

	Token struct {
		Secret   string        `env:"TOKEN_SECRET,required,notEmpty"`
		Duration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`
	}

	DB struct {
		Driver string `env:"DB_DRIVER" envDefault:"postgres"`
		URL    string `env:"DATABASE_URL,required,notEmpty"`
	}

	HTTP struct {
		Env             string        `env:"APP_ENV" envDefault:"local"`
		URL             string        `env:"HTTP_URL" envDefault:"0.0.0.0"`
		Port            string        `env:"HTTP_PORT" envDefault:"8080"`
		AllowedOrigins  string        `env:"ALLOWED_ORIGINS" envDefault:"*"`
		RequireAuth     bool          `env:"HTTP_REQUIRE_AUTH" envDefault:"false"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	// Redis caching is disabled when Address is empty.
	Redis struct {
		Address  string        `env:"REDIS_ADDRESS"`
		Password string        `env:"REDIS_PASSWORD"`
		DB       int           `env:"REDIS_DB" envDefault:"0"`
		TTL      time.Duration `env:"REDIS_TTL" envDefault:"15m"`
	}

	// Auth holds the login created at startup if it does not exist yet.
	Auth struct {
		BootstrapUsername string `env:"AUTH_BOOTSTRAP_USERNAME"`
		BootstrapPassword string `env:"AUTH_BOOTSTRAP_PASSWORD"`
	}
)

func (h *HTTP) ListenAddr() string {
	return fmt.Sprintf("%s:%s", h.URL, h.Port)
}

func (r *Redis) Enabled() bool {
	return r.Address != ""
}

// New reads .env (outside production) and then the process environment.
func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	return Parse()
}

// Parse builds the container from the process environment only.
func Parse() (*Container, error) {
	app := &App{}
	token := &Token{}
	db := &DB{}
	http := &HTTP{}
	redis := &Redis{}
	auth := &Auth{}

	for _, section := range []any{app, token, db, http, redis, auth} {
		if err := env.Parse(section); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if (auth.BootstrapUsername == "") != (auth.BootstrapPassword == "") {
		return nil, errors.New("AUTH_BOOTSTRAP_USERNAME and AUTH_BOOTSTRAP_PASSWORD must be set together")
	}

	return &Container{
		App:   app,
		Token: token,
		DB:    db,
		HTTP:  http,
		Redis: redis,
		Auth:  auth,
	}, nil
}
