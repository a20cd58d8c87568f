package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"devstrap/internal/backend"
	"devstrap/internal/config"
	"devstrap/internal/installer"
	"devstrap/internal/probe"
)

// Flags shared by the install command and its subcommands.
var (
	skipVSCode  bool
	skipGit     bool
	nodeVersion string
	dryRun      bool
	configPath  string
)

// installCmd runs the full sequence: package manager, git, version manager,
// runtime, package managers, global packages, editor, extensions, extras,
// then the config templates and profile lines.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install Node.js and developer tooling",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts, cfg, be, pr, r := environment()
		requireElevation(r)

		steps := installer.BuildSteps(opts, cfg, be, pr, r, log)
		results := runDriver(opts, pr, steps)

		applier := &installer.Applier{Log: log, DryRun: opts.DryRun}
		if err := applier.Apply(cfg); err != nil {
			log.Error("[ERROR] Failed to apply configuration: %v\n", err)
		}

		report(pr, steps, results)
		if installer.RequiredFailed(steps, results) {
			os.Exit(1)
		}
	},
}

// installNodeCmd installs only the runtime chain (version manager + Node).
var installNodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Install only the Node.js runtime and its version manager",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCategories(installer.CategoryRuntime)
	},
}

// installToolsCmd installs only the CLI tooling around the runtime.
var installToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Install only git, yarn, pnpm, global packages, and extras",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCategories(installer.CategoryTools)
	},
}

// installEditorCmd installs only the editor and its extensions.
var installEditorCmd = &cobra.Command{
	Use:   "editor",
	Short: "Install only the editor and its extensions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCategories(installer.CategoryEditor)
	},
}

// installConfigsCmd applies only the config templates and profile lines.
var installConfigsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Apply only config templates and shell profile lines",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		applier := &installer.Applier{Log: log, DryRun: dryRun}
		if err := applier.Apply(cfg); err != nil {
			log.Error("[ERROR] Failed to apply configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

// environment assembles everything an install run needs. An unsupported
// platform is fatal here, before any step runs.
func environment() (config.Options, config.Config, backend.Backend, *probe.Prober, probe.Runner) {
	opts := config.Options{
		SkipEditor:         skipVSCode,
		SkipVersionControl: skipGit,
		NodeVersion:        nodeVersion,
		DryRun:             dryRun,
	}
	cfg := loadConfig()

	r := probe.NewSystemRunner(log)
	pr := probe.New(r, log)

	be, err := backend.Detect(r, pr.LookPath, log)
	if err != nil {
		log.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
	log.Debug("[DEBUG] Using package manager backend: %s\n", be)

	return opts, cfg, be, pr, r
}

// loadConfig reads devstrap.yaml, exiting on a malformed file.
func loadConfig() config.Config {
	cfg, err := config.Load(configPath, log)
	if err != nil {
		log.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// requireElevation checks Windows elevation before the first install
// action. The read-only status command never calls it.
func requireElevation(r probe.Runner) {
	if err := backend.EnsureElevated(r); err != nil {
		log.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// runCategories executes the subset of the sequence matching the given
// categories and reports on it.
func runCategories(categories ...installer.Category) {
	opts, cfg, be, pr, r := environment()
	requireElevation(r)

	steps := installer.FilterSteps(installer.BuildSteps(opts, cfg, be, pr, r, log), categories...)
	results := runDriver(opts, pr, steps)

	report(pr, steps, results)
	if installer.RequiredFailed(steps, results) {
		os.Exit(1)
	}
}

func runDriver(opts config.Options, pr *probe.Prober, steps []installer.Step) []installer.Result {
	driver := &installer.Driver{Available: pr.Available, Log: log, DryRun: opts.DryRun}
	return driver.Run(steps)
}

func report(pr *probe.Prober, steps []installer.Step, results []installer.Result) {
	reporter := &installer.Reporter{Versions: pr, Log: log}
	reporter.Print(steps, results)
}

// init sets up CLI flags and registers the install command tree.
func init() {
	installCmd.PersistentFlags().BoolVar(&skipVSCode, "skip-vscode", false, "Omit the editor install and its extensions")
	installCmd.PersistentFlags().BoolVar(&skipGit, "skip-git", false, "Omit the git install")
	installCmd.PersistentFlags().StringVar(&nodeVersion, "node-version", "lts", "Node.js version to install")
	installCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log install actions without executing them")
	installCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "devstrap.yaml", "Path to configuration file")

	installCmd.AddCommand(installNodeCmd)
	installCmd.AddCommand(installToolsCmd)
	installCmd.AddCommand(installEditorCmd)
	installCmd.AddCommand(installConfigsCmd)
	rootCmd.AddCommand(installCmd)
}
