// Package manifest provides the MCP tool for applying freeform YAML or
// JSON manifests.
package manifest

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// RegisterManifestTools registers all manifest tools with the MCP server
func RegisterManifestTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	applyOpts := []mcp.ToolOption{
		mcp.WithDescription("Apply a raw YAML or JSON manifest verbatim; kubectl owns validation"),
	}
	applyOpts = append(applyOpts, tools.AddCredentialParams()...)
	applyOpts = append(applyOpts,
		mcp.WithString("manifest",
			mcp.Required(),
			mcp.Description("Manifest text to apply (YAML or JSON, may contain multiple documents)"),
		),
		tools.TimeoutParam(),
	)
	applyTool := mcp.NewTool("kubectl_apply_manifest", applyOpts...)

	s.AddTool(applyTool, tools.WrapWithAuditLogging("kubectl_apply_manifest", handleApplyManifest, sc))

	return nil
}
