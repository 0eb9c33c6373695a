package server

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kubeportal/mcp-kubectl/internal/instrumentation"
	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithExecutor sets the kubectl executor for the ServerContext.
func WithExecutor(executor kubectl.Executor) Option {
	return func(sc *ServerContext) error {
		if executor == nil {
			return ErrMissingExecutor
		}
		sc.executor = executor
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ServerName = name
		return nil
	}
}

// WithVersion sets the reported server version in the configuration.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Version = version
		return nil
	}
}

// WithPreflight enables or disables the pre-flight connectivity probe that
// runs before each kubectl command.
func WithPreflight(enabled bool) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Preflight = enabled
		return nil
	}
}

// WithTimeouts sets the default execution timeouts for structured operations
// and manifest applies. Non-positive values keep the existing defaults.
func WithTimeouts(structured, manifest time.Duration) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		if structured > 0 {
			sc.config.StructuredTimeout = structured
		}
		if manifest > 0 {
			sc.config.ManifestTimeout = manifest
		}
		return nil
	}
}

// WithNonDestructiveMode enables or disables non-destructive mode.
func WithNonDestructiveMode(enabled bool) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.NonDestructiveMode = enabled
		return nil
	}
}

// WithDryRun enables or disables dry-run mode.
func WithDryRun(enabled bool) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.DryRun = enabled
		return nil
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.LogLevel = level
		return nil
	}
}

// WithAllowedOperations restricts the tool operations the server exposes.
// An empty list allows everything.
func WithAllowedOperations(operations []string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		if operations != nil {
			sc.config.AllowedOperations = make([]string, len(operations))
			copy(sc.config.AllowedOperations, operations)
		}
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
// This enables production-grade observability including metrics and tracing.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingExecutor = errors.New("kubectl executor is required")
	ErrMissingLogger   = errors.New("logger is required")
	ErrMissingConfig   = errors.New("configuration is required")
	ErrServerShutdown  = errors.New("server context has been shutdown")
)

// DefaultLogger is a simple logger implementation that wraps the standard library logger.
type DefaultLogger struct {
	logger *log.Logger
	level  string
}

// NewDefaultLogger creates a new default logger with standard error output.
func NewDefaultLogger() Logger {
	return &DefaultLogger{
		logger: log.New(os.Stderr, "[mcp-kubectl] ", log.LstdFlags|log.Lshortfile),
		level:  "info",
	}
}

// Info logs an informational message.
func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	l.logger.Printf("[INFO] "+msg, args...)
}

// Debug logs a debug message.
func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	if l.level == "debug" {
		l.logger.Printf("[DEBUG] "+msg, args...)
	}
}

// Warn logs a warning message.
func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	l.logger.Printf("[WARN] "+msg, args...)
}

// Error logs an error message.
func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	l.logger.Printf("[ERROR] "+msg, args...)
}

// With returns a new logger with additional context fields.
func (l *DefaultLogger) With(args ...interface{}) Logger {
	// For the default logger, we'll just add the context to the prefix
	if len(args) > 0 {
		prefix := fmt.Sprintf("[mcp-kubectl] %v ", args)
		return &DefaultLogger{
			logger: log.New(os.Stderr, prefix, log.LstdFlags|log.Lshortfile),
			level:  l.level,
		}
	}
	return l
}
