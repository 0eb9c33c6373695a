// Package command provides the MCP tool for running arbitrary kubectl
// command lines, gated on the trusted binary name.
package command

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// RegisterCommandTools registers all command tools with the MCP server
func RegisterCommandTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	runOpts := []mcp.ToolOption{
		mcp.WithDescription("Run an arbitrary kubectl command line; the first token must be 'kubectl'"),
	}
	runOpts = append(runOpts, tools.AddCredentialParams()...)
	runOpts = append(runOpts,
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Full command line (e.g. 'kubectl get pods -o wide')"),
		),
		tools.TimeoutParam(),
	)
	runTool := mcp.NewTool("kubectl_run", runOpts...)

	s.AddTool(runTool, tools.WrapWithAuditLogging("kubectl_run", handleRun, sc))

	return nil
}
