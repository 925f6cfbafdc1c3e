package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

type LoggerAdapter struct {
	logger *slog.Logger
}

// NewLoggerAdapter tags every entry with service. prod writes JSON from
// info up; any other env writes text including debug.
func NewLoggerAdapter(env, service string) ports.LoggerPort {
	return newLoggerAdapter(env, service, os.Stdout)
}

// NewNopLogger discards everything; meant for tests.
func NewNopLogger() ports.LoggerPort {
	return &LoggerAdapter{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newLoggerAdapter(env, service string, out io.Writer) *LoggerAdapter {
	var handler slog.Handler
	if env == envProd {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	log := slog.New(handler)
	if service != "" {
		log = log.With(slog.String("service", service))
	}
	return &LoggerAdapter{
		logger: log,
	}
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Info(msg)
		return
	}
	l.logger.Info(msg, slog.Any("fields", fields))
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Error(msg)
		return
	}
	l.logger.Error(msg, slog.Any("fields", fields))
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Debug(msg)
		return
	}
	l.logger.Debug(msg, slog.Any("fields", fields))
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Warn(msg)
		return
	}
	l.logger.Warn(msg, slog.Any("fields", fields))
}

var _ ports.LoggerPort = (*LoggerAdapter)(nil)
