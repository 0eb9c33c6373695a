// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
	"github.com/kubeportal/mcp-kubectl/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// AddCredentialParams returns the tool options for the cluster credential
// parameters every tool takes. Credentials arrive with each call and are
// never held by the server.
func AddCredentialParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("endpoint",
			mcp.Required(),
			mcp.Description("Cluster API server URL (e.g. https://api.cluster.example.com:6443)"),
		),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Bearer token used to authenticate against the cluster"),
		),
		mcp.WithString("namespace",
			mcp.Description("Default namespace for the operation (optional, default: default)"),
		),
		mcp.WithBoolean("insecureSkipTlsVerify",
			mcp.Description("Skip TLS certificate verification (optional, default: false)"),
		),
		mcp.WithString("caData",
			mcp.Description("PEM-encoded CA bundle to verify the API server certificate (optional)"),
		),
	}
}

// CredentialFromArgs builds a kubectl.Credential from tool call arguments.
// Full validation happens inside the executor; this only shapes the input.
func CredentialFromArgs(args map[string]interface{}) kubectl.Credential {
	endpoint, _ := args["endpoint"].(string)
	token, _ := args["token"].(string)
	namespace, _ := args["namespace"].(string)
	insecure, _ := args["insecureSkipTlsVerify"].(bool)
	caData, _ := args["caData"].(string)

	cred := kubectl.Credential{
		ServerURL:   endpoint,
		BearerToken: token,
		Namespace:   namespace,
	}

	switch {
	case insecure:
		cred.TLSMode = kubectl.TLSSkipVerify
	case caData != "":
		cred.TLSMode = kubectl.TLSVerifyCA
		cred.CAData = []byte(caData)
	default:
		cred.TLSMode = kubectl.TLSVerify
	}

	return cred
}

// TimeoutFromArgs reads the optional timeoutSeconds argument. Zero means
// "use the operation's default timeout".
func TimeoutFromArgs(args map[string]interface{}) time.Duration {
	if seconds, ok := args["timeoutSeconds"].(float64); ok && seconds > 0 {
		return time.Duration(seconds * float64(time.Second))
	}
	return 0
}

// TimeoutParam returns the tool option for the optional per-call timeout.
func TimeoutParam() mcp.ToolOption {
	return mcp.WithNumber("timeoutSeconds",
		mcp.Description("Execution timeout in seconds (optional, defaults depend on the operation)"),
	)
}

// ExecutionResponse is the JSON shape returned to the MCP client for every
// kubectl execution.
type ExecutionResponse struct {
	Succeeded     bool   `json:"succeeded"`
	Stdout        string `json:"stdout,omitempty"`
	Stderr        string `json:"stderr,omitempty"`
	ExitCode      *int   `json:"exitCode,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
}

// FormatResult converts an execution outcome into an MCP tool result.
// Failed executions become MCP tool errors so clients can branch on IsError
// while still receiving the structured detail.
func FormatResult(result *kubectl.Result) *mcp.CallToolResult {
	response := ExecutionResponse{
		Succeeded:     result.Succeeded,
		Stdout:        result.Stdout,
		Stderr:        result.Stderr,
		ExitCode:      result.ExitCode,
		FailureReason: string(result.FailureReason),
	}

	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal execution result: %v", err))
	}

	if !result.Succeeded {
		return mcp.NewToolResultError(string(data))
	}
	return mcp.NewToolResultText(string(data))
}

// ResultLabel maps an execution outcome to the bounded metric label set.
func ResultLabel(result *kubectl.Result) string {
	if result == nil {
		return "error"
	}
	if result.Succeeded {
		return "success"
	}
	return string(result.FailureReason)
}

// Execute runs the descriptor through the server's executor, honoring an
// optional per-call timeout, and converts the outcome into an MCP result.
// Executor errors (validation, untrusted command, unavailable binary) come
// back as MCP tool errors, not Go errors; the MCP protocol layer treats Go
// errors as transport failures.
func Execute(ctx context.Context, sc *server.ServerContext, cred kubectl.Credential, desc kubectl.Descriptor, timeout time.Duration) (*mcp.CallToolResult, error) {
	start := time.Now()

	var (
		result *kubectl.Result
		err    error
	)
	if timeout > 0 {
		result, err = sc.Executor().ExecuteWithTimeout(ctx, cred, desc, timeout)
	} else {
		result, err = sc.Executor().Execute(ctx, cred, desc)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recordExecution(ctx, sc, desc.Operation(), result, time.Since(start))
	return FormatResult(result), nil
}

// recordExecution forwards the outcome to the metrics pipeline when
// instrumentation is enabled.
func recordExecution(ctx context.Context, sc *server.ServerContext, operation string, result *kubectl.Result, duration time.Duration) {
	provider := sc.InstrumentationProvider()
	if provider == nil || provider.Metrics() == nil {
		return
	}
	provider.Metrics().RecordExecution(ctx, operation, ResultLabel(result), duration)
}
