package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kubeportal/mcp-kubectl/internal/instrumentation"
)

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name        string
		config      MetricsServerConfig
		wantErr     bool
		errContains string
	}{
		{
			name: "nil instrumentation provider",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				InstrumentationProvider: nil,
			},
			wantErr:     true,
			errContains: "instrumentation provider is required",
		},
		{
			name: "disabled provider has no registry",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				InstrumentationProvider: createDisabledProvider(t),
			},
			wantErr:     true,
			errContains: "no Prometheus registry",
		},
		{
			name: "valid config uses default addr",
			config: MetricsServerConfig{
				Addr:                    "",
				InstrumentationProvider: createEnabledProvider(t),
			},
			wantErr: false,
		},
		{
			name: "valid config with custom addr",
			config: MetricsServerConfig{
				Addr:                    ":9091",
				InstrumentationProvider: createEnabledProvider(t),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewMetricsServer(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewMetricsServer() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewMetricsServer() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMetricsServer() unexpected error: %v", err)
			}

			expectedAddr := tt.config.Addr
			if expectedAddr == "" {
				expectedAddr = DefaultMetricsAddr
			}
			if server.Addr() != expectedAddr {
				t.Errorf("Addr() = %v, want %v", server.Addr(), expectedAddr)
			}
		})
	}
}

func TestMetricsServer_ShutdownWithoutStart(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9093",
		InstrumentationProvider: createEnabledProvider(t),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() without Start() error = %v", err)
	}
}

func createEnabledProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		Enabled:            true,
		MetricsExporter:    "prometheus",
		TracingExporter:    "none",
		PrometheusEndpoint: "/metrics",
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create test provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func createDisabledProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("Failed to create test provider: %v", err)
	}
	return provider
}
