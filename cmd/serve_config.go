package cmd

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// envValueTrue is the string value used to enable boolean environment variables.
const envValueTrue = "true"

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Executor settings
	KubectlBinary     string
	InstallKubectl    bool
	KubectlVersion    string
	InstallDir        string
	Preflight         bool
	StructuredTimeout time.Duration
	ManifestTimeout   time.Duration

	// Safety settings
	NonDestructiveMode bool
	DryRun             bool
	AllowedOperations  []string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Metrics holds the dedicated metrics server configuration.
	Metrics MetricsServeConfig
}

// MetricsServeConfig holds configuration for the dedicated metrics server.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// Validate checks the configuration for values that would only fail later
// at an inconvenient time.
func (c *ServeConfig) Validate() error {
	switch c.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}

	if c.KubectlBinary == "" {
		return fmt.Errorf("kubectl binary name must not be empty")
	}
	if c.StructuredTimeout < 0 {
		return fmt.Errorf("structured timeout must not be negative: %s", c.StructuredTimeout)
	}
	if c.ManifestTimeout < 0 {
		return fmt.Errorf("manifest timeout must not be negative: %s", c.ManifestTimeout)
	}

	return nil
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseDurationEnv parses a duration from an environment variable value.
// Returns the parsed duration and true if successful, or zero and false if
// parsing fails. Logs a warning if the value is present but invalid.
func parseDurationEnv(value, envName string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return d, true
}
