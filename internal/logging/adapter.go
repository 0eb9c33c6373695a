package logging

import (
	"log/slog"
	"os"

	"github.com/kubeportal/mcp-kubectl/internal/server"
)

// SlogAdapter wraps a *slog.Logger so it can be used wherever the server
// package expects a Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter around the given logger. A nil logger
// falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// NewLogger builds an adapter with a handler configured from the level
// and format strings used in the server configuration. Unknown values
// fall back to info level and JSON output.
func NewLogger(level, format string) *SlogAdapter {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return &SlogAdapter{logger: slog.New(handler)}
}

// DefaultLogger returns an adapter around the process default logger.
func DefaultLogger() *SlogAdapter {
	return NewSlogAdapter(nil)
}

// Logger exposes the underlying slog.Logger, for callers that need it
// directly (audit logging, for example).
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// Debug logs a debug message.
func (a *SlogAdapter) Debug(msg string, args ...interface{}) {
	a.logger.Debug(msg, args...)
}

// Info logs an informational message.
func (a *SlogAdapter) Info(msg string, args ...interface{}) {
	a.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (a *SlogAdapter) Warn(msg string, args ...interface{}) {
	a.logger.Warn(msg, args...)
}

// Error logs an error message.
func (a *SlogAdapter) Error(msg string, args ...interface{}) {
	a.logger.Error(msg, args...)
}

// With returns a new logger with additional context fields.
func (a *SlogAdapter) With(args ...interface{}) server.Logger {
	if len(args) == 0 {
		return a
	}
	return &SlogAdapter{logger: a.logger.With(args...)}
}
