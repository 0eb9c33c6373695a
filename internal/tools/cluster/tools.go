// Package cluster provides MCP tools for cluster connectivity and
// read-only resource listing.
package cluster

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// RegisterClusterTools registers all cluster tools with the MCP server
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// kubectl_connect tool
	connectOpts := []mcp.ToolOption{
		mcp.WithDescription("Validate a cluster credential and check that the cluster is reachable"),
	}
	connectOpts = append(connectOpts, tools.AddCredentialParams()...)
	connectOpts = append(connectOpts, tools.TimeoutParam())
	connectTool := mcp.NewTool("kubectl_connect", connectOpts...)

	s.AddTool(connectTool, tools.WrapWithAuditLogging("kubectl_connect", handleConnect, sc))

	// kubectl_get_resources tool
	getOpts := []mcp.ToolOption{
		mcp.WithDescription("List resources of a given type in the credential's namespace"),
	}
	getOpts = append(getOpts, tools.AddCredentialParams()...)
	getOpts = append(getOpts,
		mcp.WithString("resourceType",
			mcp.Required(),
			mcp.Description("Resource type to list (e.g. pods, services, deployments, all)"),
		),
		mcp.WithString("output",
			mcp.Description("Output format passed to kubectl -o (optional, e.g. wide, json, yaml)"),
		),
		tools.TimeoutParam(),
	)
	getTool := mcp.NewTool("kubectl_get_resources", getOpts...)

	s.AddTool(getTool, tools.WrapWithAuditLogging("kubectl_get_resources", handleGetResources, sc))

	return nil
}
