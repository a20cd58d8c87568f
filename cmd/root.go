package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"devstrap/internal/logger"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// log is the logger shared by all commands, constructed once the flags are
// parsed and passed explicitly into every component.
var log logger.Logger

// rootCmd is the base command for the CLI tool `devstrap`.
var rootCmd = &cobra.Command{
	Use:   "devstrap",
	Short: "Node.js developer environment bootstrap",

	// PersistentPreRun runs before any subcommand; the logger is built
	// here so every command sees the --debug flag's effect.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(debug)
	},
}

// Execute initializes flags, registers subcommands, and starts command
// execution. Usage errors (unrecognized flags or arguments) exit with
// status 1 before any installation work begins.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
