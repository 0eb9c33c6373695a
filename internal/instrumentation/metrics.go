package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
	attrStage     = "stage"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP transport metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// kubectl execution metrics
	executionsTotal   metric.Int64Counter
	executionDuration metric.Float64Histogram
	spawnsTotal       metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.executionsTotal, err = meter.Int64Counter(
		"kubectl_executions_total",
		metric.WithDescription("Total number of kubectl executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubectl_executions_total counter: %w", err)
	}

	m.executionDuration, err = meter.Float64Histogram(
		"kubectl_execution_duration_seconds",
		metric.WithDescription("kubectl execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubectl_execution_duration_seconds histogram: %w", err)
	}

	m.spawnsTotal, err = meter.Int64Counter(
		"kubectl_spawns_total",
		metric.WithDescription("Total number of spawned kubectl processes"),
		metric.WithUnit("{process}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubectl_spawns_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordExecution records a kubectl execution with its operation name, result,
// and duration. The operation is the tool-level verb (create-deployment,
// apply-manifest, arbitrary) and the result is "success" or a failure reason.
// Both label sets are bounded, so no cardinality control is needed here.
func (m *Metrics) RecordExecution(ctx context.Context, operation, result string, duration time.Duration) {
	if m.executionsTotal == nil || m.executionDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrResult, result),
	}

	m.executionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.executionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSpawn records one spawned kubectl process. Stage is "probe" for the
// pre-flight connectivity check and "primary" for the requested command.
func (m *Metrics) RecordSpawn(ctx context.Context, stage string) {
	if m.spawnsTotal == nil {
		return // Instrumentation not initialized
	}

	m.spawnsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStage, stage)))
}
