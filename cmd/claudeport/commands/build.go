package commands

import (
	"github.com/spf13/cobra"

	"claudeport/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a Linux package from the latest vendor release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("build")
			cleanup, _ := cmd.Flags().GetString("clean")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return c.app.Build(cmd.Context(), app.BuildOptions{
				Format:  format,
				Cleanup: cleanup,
				DryRun:  dryRun,
			})
		},
	}
	cmd.Flags().StringP("build", "b", "deb", "Artifact format: deb, appimage or flatpak")
	cmd.Flags().StringP("clean", "c", "yes", "Delete the working tree after a successful build: yes or no")
	cmd.Flags().Bool("dry-run", false, "Print the resolved configuration and exit")
	return cmd
}
