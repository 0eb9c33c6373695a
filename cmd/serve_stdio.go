package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// runStdioServer serves MCP over stdin/stdout until the client closes the
// stream or the context is canceled by a shutdown signal. Stdout carries
// MCP traffic only, so transport errors go to stderr.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	stdioSrv := mcpserver.NewStdioServer(mcpSrv)
	stdioSrv.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))

	err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport stopped: %w", err)
	}
	return nil
}
