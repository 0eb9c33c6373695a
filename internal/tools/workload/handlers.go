package workload

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// handleCreateDeployment renders a Deployment manifest and applies it.
func handleCreateDeployment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "create"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	cred := tools.CredentialFromArgs(args)

	name, _ := args["name"].(string)
	image, _ := args["image"].(string)
	replicas, _ := args["replicas"].(string)
	namespace, _ := args["namespace"].(string)

	var port int
	if portVal, ok := args["port"].(float64); ok {
		port = int(portVal)
	}

	desc := kubectl.Deployment{
		Name:      name,
		Image:     image,
		Replicas:  replicas,
		Port:      port,
		Namespace: namespace,
	}

	return tools.Execute(ctx, sc, cred, desc, tools.TimeoutFromArgs(args))
}

// handleCreateService renders a Service manifest and applies it.
func handleCreateService(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "create"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	cred := tools.CredentialFromArgs(args)

	name, _ := args["name"].(string)
	serviceType, _ := args["type"].(string)
	namespace, _ := args["namespace"].(string)

	var port, targetPort int
	if portVal, ok := args["port"].(float64); ok {
		port = int(portVal)
	}
	if targetVal, ok := args["targetPort"].(float64); ok {
		targetPort = int(targetVal)
	}

	desc := kubectl.Service{
		Name:       name,
		Port:       port,
		TargetPort: targetPort,
		Type:       serviceType,
		Namespace:  namespace,
	}

	return tools.Execute(ctx, sc, cred, desc, tools.TimeoutFromArgs(args))
}

// handleDeleteResource removes a resource by kind and name.
func handleDeleteResource(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "delete"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	cred := tools.CredentialFromArgs(args)

	kind, _ := args["kind"].(string)
	name, _ := args["name"].(string)
	namespace, _ := args["namespace"].(string)

	desc := kubectl.DeleteRequest{
		Kind:      kind,
		Name:      name,
		Namespace: namespace,
	}

	return tools.Execute(ctx, sc, cred, desc, tools.TimeoutFromArgs(args))
}
