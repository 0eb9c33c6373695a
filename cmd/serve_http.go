package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/kubeportal/mcp-kubectl/internal/instrumentation"
	"github.com/kubeportal/mcp-kubectl/internal/logging"
	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/server/middleware"
)

// runStreamableHTTPServer runs the server with Streamable HTTP transport.
func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, config ServeConfig, provider *instrumentation.Provider, sc *server.ServerContext, logger *logging.SlogAdapter) error {
	mux := http.NewServeMux()

	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.HTTPEndpoint),
	)
	mux.Handle(config.HTTPEndpoint, mcpHandler)

	// Health check endpoints; metrics live on the dedicated metrics server.
	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	logger.Info("streamable HTTP server starting",
		"addr", config.HTTPAddr,
		"endpoint", config.HTTPEndpoint,
		"health_endpoints", []string{"/healthz", "/readyz"})

	var handler http.Handler = mux
	handler = middleware.HTTPMetrics(provider)(handler)
	handler = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
		EnableHSTS: os.Getenv("ENABLE_HSTS") == envValueTrue,
	})(handler)

	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var metricsServer *server.MetricsServer
	if config.Metrics.Enabled && provider != nil && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    config.Metrics.Addr,
			Enabled:                 config.Metrics.Enabled,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		logger.Info("metrics server starting", "addr", metricsServer.Addr(), "endpoint", provider.PrometheusEndpoint())
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		group.Go(func() error {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server stopped with error: %w", err)
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received, stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error shutting down metrics server", "error", err)
			}
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
