package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the mcp-kubectl package.
const TracerName = "github.com/kubeportal/mcp-kubectl"

// Span attribute keys for tool and kubectl execution spans.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrEndpoint is the sanitized cluster endpoint. Callers must
	// sanitize the host before attaching it; raw IPs do not belong in spans.
	SpanAttrEndpoint = "portal.endpoint"

	// SpanAttrEndpointKind is the classified endpoint kind (lower cardinality).
	SpanAttrEndpointKind = "portal.endpoint_kind"

	// SpanAttrOperation is the executor operation (create-deployment, arbitrary, ...).
	SpanAttrOperation = "kubectl.operation"

	// SpanAttrExitCode is the kubectl process exit code.
	SpanAttrExitCode = "kubectl.exit_code"

	// SpanAttrNamespace is the Kubernetes namespace.
	SpanAttrNamespace = "k8s.namespace"

	// SpanAttrResourceType is the Kubernetes resource type.
	SpanAttrResourceType = "k8s.resource_type"

	// SpanAttrResourceName is the Kubernetes resource name.
	SpanAttrResourceName = "k8s.resource_name"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming and cardinality controls.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithEndpoint adds endpoint attributes. The endpoint must already be
// sanitized. Adds both the sanitized endpoint and its classified kind.
func (b *SpanAttributeBuilder) WithEndpoint(sanitizedEndpoint string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.String(SpanAttrEndpoint, sanitizedEndpoint),
		attribute.String(SpanAttrEndpointKind, string(ClassifyEndpoint(sanitizedEndpoint))),
	)
	return b
}

// WithOperation adds the executor operation attribute.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

// WithNamespace adds the Kubernetes namespace attribute.
func (b *SpanAttributeBuilder) WithNamespace(namespace string) *SpanAttributeBuilder {
	if namespace != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrNamespace, namespace))
	}
	return b
}

// WithResource adds Kubernetes resource attributes.
func (b *SpanAttributeBuilder) WithResource(resourceType, resourceName string) *SpanAttributeBuilder {
	if resourceType != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrResourceType, resourceType))
	}
	if resourceName != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrResourceName, resourceName))
	}
	return b
}

// WithExitCode adds the kubectl exit code attribute.
func (b *SpanAttributeBuilder) WithExitCode(exitCode int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrExitCode, exitCode))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for an MCP tool invocation.
// Automatically adds the tool name and sets the server span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartExecSpan starts a span for a kubectl process execution.
// Includes the operation and sets the client span kind; the child process
// acts on a remote cluster on the caller's behalf.
func StartExecSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrOperation, operation))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "kubectl."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID from the current span in context.
// Returns empty string if no valid span is present.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}

// SpanContextString returns a human-readable trace context string.
// Format: "trace_id=X span_id=Y" or empty string if no valid context.
func SpanContextString(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return "trace_id=" + span.SpanContext().TraceID().String() +
		" span_id=" + span.SpanContext().SpanID().String()
}
