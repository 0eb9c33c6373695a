package cluster

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// ConnectResponse reports the outcome of a connectivity check.
type ConnectResponse struct {
	Connected bool   `json:"connected"`
	Endpoint  string `json:"endpoint"`
	Namespace string `json:"namespace"`
	Detail    string `json:"detail,omitempty"`
}

// handleConnect validates the credential and verifies the cluster answers.
// The kubeconfig materialized for this check is removed before the handler
// returns, like every other execution.
func handleConnect(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	cred := tools.CredentialFromArgs(args)

	desc := kubectl.Command{Argv: []string{kubectl.TrustedBinary, "cluster-info"}}

	var (
		result *kubectl.Result
		err    error
	)
	if timeout := tools.TimeoutFromArgs(args); timeout > 0 {
		result, err = sc.Executor().ExecuteWithTimeout(ctx, cred, desc, timeout)
	} else {
		result, err = sc.Executor().Execute(ctx, cred, desc)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := ConnectResponse{
		Connected: result.Succeeded,
		Endpoint:  kubectl.SanitizeHost(cred.ServerURL),
		Namespace: cred.Namespace,
	}
	if !result.Succeeded {
		response.Detail = fmt.Sprintf("%s: %s", result.FailureReason, result.Stderr)
	}

	data, merr := json.MarshalIndent(response, "", "  ")
	if merr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal connect response: %v", merr)), nil
	}

	if !result.Succeeded {
		return mcp.NewToolResultError(string(data)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGetResources lists resources of the requested type.
func handleGetResources(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	cred := tools.CredentialFromArgs(args)

	resourceType, _ := args["resourceType"].(string)
	if resourceType == "" {
		return mcp.NewToolResultError("resourceType is required"), nil
	}

	argv := []string{kubectl.TrustedBinary, "get", resourceType}
	if output, _ := args["output"].(string); output != "" {
		argv = append(argv, "-o", output)
	}

	return tools.Execute(ctx, sc, cred, kubectl.Command{Argv: argv}, tools.TimeoutFromArgs(args))
}
