package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures a single MCP tool invocation for audit logging.
// Fields are populated through the fluent With* methods and finalized with
// one of the Complete* methods.
//
// The Endpoint field must hold the sanitized cluster endpoint. Bearer tokens
// are never part of an invocation record in any form.
type ToolInvocation struct {
	Tool         string
	Endpoint     string
	Namespace    string
	ResourceType string
	ResourceName string
	Result       string
	Success      bool
	Error        string
	StartTime    time.Time
	Duration     time.Duration
	TraceID      string
	SpanID       string
}

// NewToolInvocation creates a ToolInvocation with the start time set to now.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithSpanContext captures the trace and span IDs from the context, if a
// valid span is present.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = TraceIDFromContext(ctx)
	ti.SpanID = SpanIDFromContext(ctx)
	return ti
}

// WithEndpoint records the sanitized cluster endpoint.
func (ti *ToolInvocation) WithEndpoint(sanitizedEndpoint string) *ToolInvocation {
	ti.Endpoint = sanitizedEndpoint
	return ti
}

// WithResource records the namespace and resource the tool acted on.
func (ti *ToolInvocation) WithResource(namespace, resourceType, resourceName string) *ToolInvocation {
	ti.Namespace = namespace
	ti.ResourceType = resourceType
	ti.ResourceName = resourceName
	return ti
}

// WithResult records the execution result label ("success" or a failure reason).
func (ti *ToolInvocation) WithResult(result string) *ToolInvocation {
	ti.Result = result
	return ti
}

// Complete finalizes the invocation with the given outcome.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Success = success
	ti.Duration = time.Since(ti.StartTime)
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteSuccess finalizes the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// CompleteWithError finalizes the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// Status returns "success" or "error" for metric labels.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return ResultSuccess
	}
	return "error"
}

// EndpointKind returns the classified endpoint kind for low-cardinality labels.
func (ti *ToolInvocation) EndpointKind() EndpointKind {
	return ClassifyEndpoint(ti.Endpoint)
}

// LogAttrs returns cardinality-controlled attributes suitable for metrics
// pipelines that scrape logs. Full endpoint and resource names are omitted.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("endpoint_kind", string(ti.EndpointKind())),
		slog.String("result", ti.Result),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
}

// LogAuditAttrs returns the full attribute set for audit log lines, including
// the sanitized endpoint, resource identity, and trace context.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("endpoint", ti.Endpoint),
		slog.String("result", ti.Result),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Namespace != "" {
		attrs = append(attrs, slog.String("namespace", ti.Namespace))
	}
	if ti.ResourceType != "" {
		attrs = append(attrs, slog.String("resource_type", ti.ResourceType))
	}
	if ti.ResourceName != "" {
		attrs = append(attrs, slog.String("resource_name", ti.ResourceName))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	return attrs
}

// AuditLogger writes structured audit records for tool invocations.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates an AuditLogger. A nil logger falls back to
// slog.Default().
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

// LogToolInvocation writes one audit record for a completed invocation.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "tool invocation", ti.LogAuditAttrs()...)
}

// TraceIDFromContext returns the trace ID of the span in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// SpanIDFromContext returns the span ID of the span in ctx, or "".
func SpanIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}
