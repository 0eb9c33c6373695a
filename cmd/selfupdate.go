package cmd

import (
	"fmt"
	"runtime"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug identifies the GitHub repository that release binaries
// are fetched from.
const githubRepoSlug = "kubeportal/mcp-kubectl"

// newSelfUpdateCmd creates the Cobra command for updating the binary in place.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update mcp-kubectl to the latest version",
		Long: `Update mcp-kubectl to the latest release published on GitHub.

The command detects the newest release for the current OS and
architecture, downloads it, and replaces the running binary in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfUpdate(cmd, rootCmd.Version)
		},
		SilenceUsage: true,
	}
}

func runSelfUpdate(cmd *cobra.Command, version string) error {
	// Development builds carry no release version to compare against, and
	// replacing a locally built binary with a release would be surprising.
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version (%q); install a released build first", version)
	}

	ctx := cmd.Context()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s/%s could not be found from github repository", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(version) {
		fmt.Fprintf(cmd.OutOrStdout(), "Current version (%s) is the latest\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updating from %s to %s...\n", version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated to version %s\n", latest.Version())
	return nil
}
