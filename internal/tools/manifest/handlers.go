package manifest

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// handleApplyManifest pipes the manifest text to kubectl apply unchanged.
func handleApplyManifest(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "apply"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	cred := tools.CredentialFromArgs(args)

	text, _ := args["manifest"].(string)
	namespace, _ := args["namespace"].(string)

	desc := kubectl.RawManifest{
		Text:      text,
		Namespace: namespace,
	}

	return tools.Execute(ctx, sc, cred, desc, tools.TimeoutFromArgs(args))
}
