package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// mockMeterProvider creates a simple meter for testing
func mockMeterProvider() metric.Meter {
	provider := sdkmetric.NewMeterProvider()
	return provider.Meter("test")
}

func TestNewMetrics(t *testing.T) {
	meter := mockMeterProvider()
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	if metrics.httpRequestsTotal == nil {
		t.Error("expected httpRequestsTotal to be initialized")
	}
	if metrics.httpRequestDuration == nil {
		t.Error("expected httpRequestDuration to be initialized")
	}
	if metrics.executionsTotal == nil {
		t.Error("expected executionsTotal to be initialized")
	}
	if metrics.executionDuration == nil {
		t.Error("expected executionDuration to be initialized")
	}
	if metrics.spawnsTotal == nil {
		t.Error("expected spawnsTotal to be initialized")
	}
}

func TestMetrics_RecordExecution(t *testing.T) {
	metrics, err := NewMetrics(mockMeterProvider())
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordExecution(ctx, "apply-manifest", ResultSuccess, 150*time.Millisecond)
	metrics.RecordExecution(ctx, "arbitrary", ResultNonZeroExit, 80*time.Millisecond)
	metrics.RecordExecution(ctx, "create-deployment", ResultTimeout, 30*time.Second)
}

func TestMetrics_RecordSpawn(t *testing.T) {
	metrics, err := NewMetrics(mockMeterProvider())
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordSpawn(ctx, StageProbe)
	metrics.RecordSpawn(ctx, StagePrimary)
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	metrics, err := NewMetrics(mockMeterProvider())
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}

	ctx := context.Background()
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "GET", "/metrics", 200, 50*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 200*time.Millisecond)
}

func TestMetrics_RecordOnUninitialized(t *testing.T) {
	// Recording on a zero-value Metrics must not panic.
	metrics := &Metrics{}
	ctx := context.Background()

	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordExecution(ctx, "arbitrary", ResultSuccess, time.Second)
	metrics.RecordSpawn(ctx, StagePrimary)
}
