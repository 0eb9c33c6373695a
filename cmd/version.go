package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mcp-kubectl",
		Long:  `All software has versions. This is mcp-kubectl's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is set in main via SetVersion.
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mcp-kubectl version %s\n", rootCmd.Version)
		},
	}
}
