// Package cmd provides the command-line interface for mcp-kubectl.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI runs the serve command when no subcommand is specified, so the
// binary can be wired into an MCP client configuration without arguments.
//
// Command Structure:
//
//	mcp-kubectl [flags]                 # Starts the MCP server (default)
//	mcp-kubectl serve [flags]           # Explicitly starts the MCP server
//	mcp-kubectl version                 # Shows version information
//	mcp-kubectl self-update             # Updates to latest release
//	mcp-kubectl help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	mcp-kubectl serve --transport stdio           # Default STDIO transport
//	mcp-kubectl serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	mcp-kubectl serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also supports flags controlling executor behavior:
// non-destructive mode, dry-run mode, the connectivity pre-flight probe,
// execution timeouts, and the optional one-time kubectl installation.
package cmd
