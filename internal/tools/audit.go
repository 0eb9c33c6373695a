package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubeportal/mcp-kubectl/internal/instrumentation"
	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
	"github.com/kubeportal/mcp-kubectl/internal/server"
)

// WrapWithAuditLogging wraps a tool handler with audit logging.
// The wrapper automatically captures:
//   - Tool invocation timing
//   - The sanitized cluster endpoint from the request arguments
//   - Namespace and resource information from the request arguments
//   - Success/error status from the handler result
//   - OpenTelemetry trace context for correlation
//
// Bearer tokens are never extracted, stored, or logged; only the sanitized
// endpoint identifies the target cluster in audit records.
//
// If no instrumentation provider is available, the handler is called without
// audit logging.
func WrapWithAuditLogging(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		provider := sc.InstrumentationProvider()
		if provider == nil || provider.AuditLogger() == nil {
			return handler(ctx, request, sc)
		}

		auditLogger := provider.AuditLogger()

		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)

		args := request.GetArguments()
		extractAuditInfoFromArgs(invocation, args)

		result, err := handler(ctx, request, sc)

		if err != nil {
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		} else if result != nil && result.IsError {
			// MCP tool errors are returned in the result, not as Go errors
			invocation.Complete(false, nil)
			if len(result.Content) > 0 {
				if textContent, ok := result.Content[0].(mcp.TextContent); ok {
					invocation.Error = textContent.Text
				}
			}
		} else {
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		auditLogger.LogToolInvocation(invocation)

		return result, err
	}
}

// extractAuditInfoFromArgs extracts the sanitized endpoint, namespace, and
// resource information from tool request arguments for audit logging.
func extractAuditInfoFromArgs(invocation *instrumentation.ToolInvocation, args map[string]interface{}) {
	if endpoint, ok := args["endpoint"].(string); ok && endpoint != "" {
		invocation.WithEndpoint(kubectl.SanitizeHost(endpoint))
	}

	namespace, _ := args["namespace"].(string)
	resourceType := extractResourceType(args)
	resourceName, _ := args["name"].(string)

	if namespace != "" || resourceType != "" || resourceName != "" {
		invocation.WithResource(namespace, resourceType, resourceName)
	}
}

// extractResourceType extracts the resource type from the argument patterns
// the different tools use.
func extractResourceType(args map[string]interface{}) string {
	for _, key := range []string{"kind", "resourceType"} {
		if v, ok := args[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
