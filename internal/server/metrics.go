package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kubeportal/mcp-kubectl/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is the default listen address for the dedicated
	// metrics server.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of HTTP servers.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig holds configuration for the dedicated metrics server.
type MetricsServerConfig struct {
	// Addr is the listen address. Defaults to DefaultMetricsAddr.
	Addr string

	// Enabled reports whether the metrics server should run at all.
	Enabled bool

	// InstrumentationProvider supplies the Prometheus registry to expose.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer exposes Prometheus metrics on its own listener, separate
// from the MCP transport so cluster-internal scraping never shares a port
// with client traffic.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
}

// NewMetricsServer creates a metrics server backed by the provider's
// Prometheus registry.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required")
	}
	registry := config.InstrumentationProvider.Registry()
	if registry == nil {
		return nil, fmt.Errorf("instrumentation provider has no Prometheus registry (metrics exporter disabled?)")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	endpoint := config.InstrumentationProvider.PrometheusEndpoint()
	if endpoint == "" {
		endpoint = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &MetricsServer{
		addr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// Start runs the listener. It blocks until the server stops and returns
// http.ErrServerClosed after a graceful shutdown.
func (s *MetricsServer) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server. Safe to call before Start.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
