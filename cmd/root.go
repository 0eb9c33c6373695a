package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mcp-kubectl application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mcp-kubectl",
	Short: "MCP server that runs kubectl against user-supplied clusters",
	Long: `mcp-kubectl is a Model Context Protocol (MCP) server that executes
kubectl operations against clusters described by per-request credentials.
It offers tools for connectivity checks, resource listing, workload
creation, manifest application, resource deletion, and freeform kubectl
command lines.

When run without subcommands, it starts the MCP server (equivalent to 'mcp-kubectl serve').`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcp-kubectl version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		// Cobra itself usually prints the error.
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newServeCmd())
}
