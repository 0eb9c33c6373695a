package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthChecker provides health check endpoints for Kubernetes probes.
type HealthChecker struct {
	// ready indicates whether the server is ready to receive traffic
	ready atomic.Bool
	// serverContext provides access to dependencies for health checks
	serverContext *ServerContext
	// startTime tracks when the server started
	startTime time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	// Server starts as ready by default
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Version string            `json:"version,omitempty"`
}

// DetailedHealthResponse provides comprehensive health information.
type DetailedHealthResponse struct {
	Status          string                      `json:"status"`
	Version         string                      `json:"version,omitempty"`
	Uptime          string                      `json:"uptime"`
	Executor        *ExecutorHealthStatus       `json:"executor,omitempty"`
	Instrumentation *InstrumentationHealthCheck `json:"instrumentation,omitempty"`
}

// ExecutorHealthStatus reports whether the kubectl binary is resolvable.
type ExecutorHealthStatus struct {
	Available bool `json:"available"`
}

// InstrumentationHealthCheck provides health information about instrumentation.
type InstrumentationHealthCheck struct {
	Enabled bool `json:"enabled"`
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
// Liveness probes indicate whether the process should be restarted.
// This should be a simple check that the server process is running.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simple liveness check - if we can respond, we're alive
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := HealthResponse{
			Status: "ok",
		}

		if h.serverContext != nil && h.serverContext.Config() != nil {
			response.Version = h.serverContext.Config().Version
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
// Readiness probes indicate whether the server is ready to receive traffic.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		allOk := true

		if !h.ready.Load() {
			checks["ready"] = "not ready"
			allOk = false
		} else {
			checks["ready"] = "ok"
		}

		if h.serverContext != nil && h.serverContext.IsShutdown() {
			checks["shutdown"] = "shutting down"
			allOk = false
		} else {
			checks["shutdown"] = "ok"
		}

		// An unresolvable binary is reported but does not fail readiness;
		// the executor may install kubectl on demand at first use.
		if h.serverContext != nil && h.serverContext.Executor() != nil {
			if h.serverContext.Executor().Available() {
				checks["kubectl"] = "ok"
			} else {
				checks["kubectl"] = "binary not found"
			}
		}

		response := HealthResponse{
			Checks: checks,
		}

		if allOk {
			response.Status = "ok"
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = "not ready"
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

// DetailedHealthHandler returns an HTTP handler for the /healthz/detailed
// endpoint with executor and instrumentation status.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		response := DetailedHealthResponse{
			Status: "ok",
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}

		if h.serverContext != nil && h.serverContext.Config() != nil {
			response.Version = h.serverContext.Config().Version
		}

		if h.serverContext != nil {
			if executor := h.serverContext.Executor(); executor != nil {
				response.Executor = &ExecutorHealthStatus{Available: executor.Available()}
			}
			response.Instrumentation = h.getInstrumentationStatus()
		}

		if !h.ready.Load() {
			response.Status = "not ready"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else if h.serverContext != nil && h.serverContext.IsShutdown() {
			response.Status = "shutting down"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// getInstrumentationStatus returns instrumentation health status.
func (h *HealthChecker) getInstrumentationStatus() *InstrumentationHealthCheck {
	provider := h.serverContext.InstrumentationProvider()
	if provider == nil {
		return &InstrumentationHealthCheck{
			Enabled: false,
		}
	}

	return &InstrumentationHealthCheck{
		Enabled: provider.Enabled(),
	}
}
