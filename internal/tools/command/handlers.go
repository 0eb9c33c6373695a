package command

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools"
)

// handleRun executes a freeform kubectl command line. Lines that do not
// start with the trusted binary name are rejected by the executor before
// any process spawns.
func handleRun(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if blocked := tools.CheckMutatingOperation(sc, "run"); blocked != nil {
		return blocked, nil
	}

	args := request.GetArguments()
	cred := tools.CredentialFromArgs(args)

	line, _ := args["command"].(string)
	desc := kubectl.ParseCommand(line)

	return tools.Execute(ctx, sc, cred, desc, tools.TimeoutFromArgs(args))
}
