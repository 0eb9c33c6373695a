// Package workload provides MCP tools for creating and deleting workload
// resources through structured descriptors.
package workload

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// RegisterWorkloadTools registers all workload tools with the MCP server
func RegisterWorkloadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// kubectl_create_deployment tool
	deployOpts := []mcp.ToolOption{
		mcp.WithDescription("Create or update a Deployment with a single container"),
	}
	deployOpts = append(deployOpts, tools.AddCredentialParams()...)
	deployOpts = append(deployOpts,
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Deployment name"),
		),
		mcp.WithString("image",
			mcp.Required(),
			mcp.Description("Container image (e.g. nginx:1.27)"),
		),
		mcp.WithString("replicas",
			mcp.Description("Replica count (optional, default: 1)"),
		),
		mcp.WithNumber("port",
			mcp.Description("Container port (optional, default: 80)"),
		),
		tools.TimeoutParam(),
	)
	deployTool := mcp.NewTool("kubectl_create_deployment", deployOpts...)

	s.AddTool(deployTool, tools.WrapWithAuditLogging("kubectl_create_deployment", handleCreateDeployment, sc))

	// kubectl_create_service tool
	serviceOpts := []mcp.ToolOption{
		mcp.WithDescription("Create or update a Service with a single TCP port mapping"),
	}
	serviceOpts = append(serviceOpts, tools.AddCredentialParams()...)
	serviceOpts = append(serviceOpts,
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Service name; also used as the app selector"),
		),
		mcp.WithNumber("port",
			mcp.Required(),
			mcp.Description("Service port"),
		),
		mcp.WithNumber("targetPort",
			mcp.Description("Target container port (optional, defaults to port)"),
		),
		mcp.WithString("type",
			mcp.Description("Service type: ClusterIP, NodePort, or LoadBalancer (optional, default: ClusterIP)"),
		),
		tools.TimeoutParam(),
	)
	serviceTool := mcp.NewTool("kubectl_create_service", serviceOpts...)

	s.AddTool(serviceTool, tools.WrapWithAuditLogging("kubectl_create_service", handleCreateService, sc))

	// kubectl_delete_resource tool
	deleteOpts := []mcp.ToolOption{
		mcp.WithDescription("Delete a resource by kind and name"),
	}
	deleteOpts = append(deleteOpts, tools.AddCredentialParams()...)
	deleteOpts = append(deleteOpts,
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Resource kind (e.g. deployment, service, pod)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Resource name"),
		),
		tools.TimeoutParam(),
	)
	deleteTool := mcp.NewTool("kubectl_delete_resource", deleteOpts...)

	s.AddTool(deleteTool, tools.WrapWithAuditLogging("kubectl_delete_resource", handleDeleteResource, sc))

	return nil
}
