// Package instrumentation provides OpenTelemetry instrumentation for the
// mcp-kubectl server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for kubectl executions and HTTP transport traffic
//   - Distributed tracing for tool invocations and kubectl process runs
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//   - Structured audit logging of every tool invocation
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Execution metrics:
//   - kubectl_executions_total: Counter of kubectl executions by operation and result
//   - kubectl_execution_duration_seconds: Histogram of execution durations
//   - kubectl_spawns_total: Counter of spawned kubectl processes by stage (probe, primary)
//
// Server/HTTP metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// # Cardinality Considerations
//
// Metric labels are restricted to bounded sets: the operation name, the
// failure reason, and the spawn stage. Cluster endpoints never become metric
// labels; every portal user may target a different cluster, and per-endpoint
// series would grow without bound. Endpoints appear only in audit log lines,
// sanitized so that raw IP addresses are not recorded.
//
// # Zero Overhead When Disabled
//
// Instrumentation is disabled by default. When disabled, the provider hands
// out no-op meters and tracers and recording calls return immediately.
package instrumentation
