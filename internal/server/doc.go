// Package server provides the ServerContext, configuration, and health
// endpoints for the mcp-kubectl MCP server.
//
// ServerContext carries the dependencies every tool handler needs: the
// kubectl executor, the logger, the configuration, and the instrumentation
// provider. It is assembled with functional options and owns a cancellable
// context for coordinated shutdown. Cluster credentials are never part of
// the ServerContext; they arrive with each tool call and live only for the
// duration of that call.
package server
