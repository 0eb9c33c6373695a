package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
)

func TestServeCmdProperties(t *testing.T) {
	cmd := newServeCmd()

	assert.Equal(t, "serve", cmd.Use)
	assert.Equal(t, "Start the MCP kubectl server", cmd.Short)
	assert.True(t, strings.Contains(cmd.Long, "Model Context Protocol"))
	assert.True(t, strings.Contains(cmd.Long, "stdio"))
	assert.True(t, strings.Contains(cmd.Long, "sse"))
	assert.True(t, strings.Contains(cmd.Long, "streamable-http"))
}

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()

	// Test that all expected flags exist
	flagNames := []string{
		"non-destructive",
		"dry-run",
		"allowed-operations",
		"kubectl-binary",
		"install-kubectl",
		"kubectl-version",
		"install-dir",
		"preflight",
		"structured-timeout",
		"manifest-timeout",
		"log-level",
		"log-format",
		"transport",
		"http-addr",
		"sse-endpoint",
		"message-endpoint",
		"http-endpoint",
		"enable-metrics-server",
		"metrics-addr",
	}

	for _, flagName := range flagNames {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}
}

func TestServeCmdFlagDefaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flagName string
		expected string
	}{
		{"non-destructive", "false"},
		{"dry-run", "false"},
		{"kubectl-binary", kubectl.TrustedBinary},
		{"install-kubectl", "false"},
		{"preflight", "true"},
		{"structured-timeout", kubectl.DefaultStructuredTimeout.String()},
		{"manifest-timeout", kubectl.DefaultManifestTimeout.String()},
		{"log-level", "info"},
		{"log-format", "json"},
		{"transport", "stdio"},
		{"http-addr", ":8080"},
		{"sse-endpoint", "/sse"},
		{"message-endpoint", "/message"},
		{"http-endpoint", "/mcp"},
		{"enable-metrics-server", "false"},
		{"metrics-addr", ":9090"},
	}

	for _, test := range tests {
		flag := cmd.Flags().Lookup(test.flagName)
		assert.Equal(t, test.expected, flag.DefValue,
			"Flag %s should have default value %s", test.flagName, test.expected)
	}
}

func TestServeCmdFlagUsage(t *testing.T) {
	cmd := newServeCmd()

	usage := cmd.UsageString()
	assert.Contains(t, usage, "--transport")
	assert.Contains(t, usage, "stdio, sse, or streamable-http")
}

func TestServeCmdTransportSpecificFlags(t *testing.T) {
	cmd := newServeCmd()

	httpAddrFlag := cmd.Flags().Lookup("http-addr")
	assert.Contains(t, httpAddrFlag.Usage, "HTTP server address")
	assert.Contains(t, httpAddrFlag.Usage, "sse and streamable-http")

	sseEndpointFlag := cmd.Flags().Lookup("sse-endpoint")
	assert.Contains(t, sseEndpointFlag.Usage, "SSE endpoint path")
	assert.Contains(t, sseEndpointFlag.Usage, "sse transport")

	messageEndpointFlag := cmd.Flags().Lookup("message-endpoint")
	assert.Contains(t, messageEndpointFlag.Usage, "Message endpoint path")
	assert.Contains(t, messageEndpointFlag.Usage, "sse transport")

	httpEndpointFlag := cmd.Flags().Lookup("http-endpoint")
	assert.Contains(t, httpEndpointFlag.Usage, "HTTP endpoint path")
	assert.Contains(t, httpEndpointFlag.Usage, "streamable-http transport")
}

func TestLoadServeEnvVars(t *testing.T) {
	t.Run("env vars apply when flags unchanged", func(t *testing.T) {
		t.Setenv("INSTALL_KUBECTL", "true")
		t.Setenv("KUBECTL_VERSION", "v1.34.0")
		t.Setenv("STRUCTURED_TIMEOUT", "45s")
		t.Setenv("METRICS_ADDR", ":9100")

		cmd := newServeCmd()
		config := ServeConfig{StructuredTimeout: kubectl.DefaultStructuredTimeout}
		loadServeEnvVars(cmd, &config)

		assert.True(t, config.InstallKubectl)
		assert.Equal(t, "v1.34.0", config.KubectlVersion)
		assert.Equal(t, 45*time.Second, config.StructuredTimeout)
		assert.Equal(t, ":9100", config.Metrics.Addr)
	})

	t.Run("explicit flags win over env vars", func(t *testing.T) {
		t.Setenv("KUBECTL_VERSION", "v1.34.0")

		cmd := newServeCmd()
		assert.NoError(t, cmd.Flags().Set("kubectl-version", "v1.30.0"))

		config := ServeConfig{KubectlVersion: "v1.30.0"}
		loadServeEnvVars(cmd, &config)

		assert.Equal(t, "v1.30.0", config.KubectlVersion)
	})

	t.Run("invalid duration env is ignored", func(t *testing.T) {
		t.Setenv("MANIFEST_TIMEOUT", "not-a-duration")

		cmd := newServeCmd()
		config := ServeConfig{ManifestTimeout: kubectl.DefaultManifestTimeout}
		loadServeEnvVars(cmd, &config)

		assert.Equal(t, kubectl.DefaultManifestTimeout, config.ManifestTimeout)
	})
}
