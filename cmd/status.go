package cmd

import (
	"github.com/spf13/cobra"

	"devstrap/internal/installer"
)

// statusCmd prints the versions of every tool in the install sequence
// without changing anything. Tools that are absent show "not available".
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed versions of every managed tool",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts, cfg, be, pr, r := environment()

		steps := installer.BuildSteps(opts, cfg, be, pr, r, log)
		report(pr, steps, nil)
	},
}

func init() {
	statusCmd.Flags().StringVarP(&configPath, "config", "c", "devstrap.yaml", "Path to configuration file")
	rootCmd.AddCommand(statusCmd)
}
