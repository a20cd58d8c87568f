package installer

import (
	"fmt"
	"strings"

	"devstrap/internal/backend"
	"devstrap/internal/config"
	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// Package catalog. One entry per tool the fixed sequence can install,
// carrying the per-manager identifiers.
var (
	pkgGit = backend.Package{
		Name: "git", Brew: "git", Winget: "Git.Git", Choco: "git",
		Apt: []string{"git"}, Dnf: []string{"git"},
	}
	pkgVSCode = backend.Package{
		Name: "Visual Studio Code", Brew: "visual-studio-code", Cask: true,
		Winget: "Microsoft.VisualStudioCode", Choco: "vscode",
		Apt: []string{"code"}, Dnf: []string{"code"},
	}
	pkgDocker = backend.Package{
		Name: "Docker", Brew: "docker", Cask: true,
		Winget: "Docker.DockerDesktop", Choco: "docker-desktop",
		Apt: []string{"docker.io"}, Dnf: []string{"docker"},
	}
	pkgNvmWindows = backend.Package{
		Name: "nvm", Winget: "CoreyButler.NVMforWindows", Choco: "nvm",
	}
)

// probeForPackage maps an npm package to the executable it puts on PATH.
// Most global packages expose a binary of the same name.
var probeForPackage = map[string]string{
	"typescript": "tsc",
}

// BuildSteps assembles the fixed install order:
// package manager → git → nvm → node → yarn → pnpm → global packages →
// editor → editor extensions → Docker.
// Options prune whole categories out of the list; the driver never sees a
// skipped step, so it cannot show up in the summary either.
func BuildSteps(opts config.Options, cfg config.Config, be backend.Backend,
	pr *probe.Prober, r probe.Runner, log logger.Logger) []Step {

	node := &NodeInstaller{
		Version: opts.NodeVersion,
		Backend: be,
		Prober:  pr,
		Runner:  r,
		Log:     log,
	}

	steps := []Step{
		{
			Name:        be.String(),
			Probe:       be.Command(),
			Run:         be.EnsureReady,
			VersionArgs: []string{"--version"},
			Required:    true,
			Category:    CategoryCore,
		},
	}

	if !opts.SkipVersionControl {
		steps = append(steps, Step{
			Name:        "git",
			Probe:       "git",
			Run:         func() error { return be.Install(pkgGit) },
			VersionArgs: []string{"--version"},
			Category:    CategoryTools,
		})
	}

	steps = append(steps,
		Step{
			Name:      "nvm",
			Probe:     "nvm",
			Satisfied: node.NvmAvailable,
			Run:       node.InstallNvm,
			Required:  true,
			Category:  CategoryRuntime,
		},
		Step{
			Name:        "node",
			Probe:       "node",
			Satisfied:   func() bool { return pr.NodeSatisfies(opts.NodeVersion) },
			Run:         node.Install,
			VersionArgs: []string{"--version"},
			Required:    true,
			Category:    CategoryRuntime,
		},
		Step{
			Name:        "yarn",
			Probe:       "yarn",
			Run:         func() error { return npmInstallGlobal(r, "yarn") },
			VersionArgs: []string{"--version"},
			Category:    CategoryTools,
		},
		Step{
			Name:        "pnpm",
			Probe:       "pnpm",
			Run:         func() error { return npmInstallGlobal(r, "pnpm") },
			VersionArgs: []string{"--version"},
			Category:    CategoryTools,
		},
	)

	for _, pkg := range cfg.GlobalPackages {
		pkg := pkg
		bin := pkg
		if mapped, ok := probeForPackage[pkg]; ok {
			bin = mapped
		}
		steps = append(steps, Step{
			Name:        pkg,
			Probe:       bin,
			Run:         func() error { return npmInstallGlobal(r, pkg) },
			VersionArgs: []string{"--version"},
			Category:    CategoryTools,
		})
	}

	if !opts.SkipEditor {
		steps = append(steps, Step{
			Name:        "Visual Studio Code",
			Probe:       "code",
			Run:         func() error { return be.Install(pkgVSCode) },
			VersionArgs: []string{"--version"},
			Category:    CategoryEditor,
		})
		if len(cfg.EditorExtensions) > 0 {
			steps = append(steps, Step{
				Name:      "editor extensions",
				Satisfied: func() bool { return extensionsInstalled(r, pr, cfg.EditorExtensions) },
				Run:       func() error { return installExtensions(r, pr, cfg.EditorExtensions, log) },
				Category:  CategoryEditor,
			})
		}
	}

	steps = append(steps, Step{
		Name:        "Docker",
		Probe:       "docker",
		Run:         func() error { return be.Install(pkgDocker) },
		VersionArgs: []string{"--version"},
		Category:    CategoryTools,
	})

	return steps
}

// npmInstallGlobal installs a package with the runtime's own package manager.
func npmInstallGlobal(r probe.Runner, pkg string) error {
	if err := r.Run("npm", "install", "-g", pkg); err != nil {
		return fmt.Errorf("npm install -g %s failed: %w", pkg, err)
	}
	return nil
}

// extensionsInstalled checks the editor's extension list for every wanted id.
// An absent editor counts as unsatisfied so the step reports a failure
// rather than silently passing.
func extensionsInstalled(r probe.Runner, pr *probe.Prober, wanted []string) bool {
	if !pr.Available("code") {
		return false
	}
	out, err := r.Output("code", "--list-extensions")
	if err != nil {
		return false
	}
	installed := strings.ToLower(out)
	for _, ext := range wanted {
		if !strings.Contains(installed, strings.ToLower(ext)) {
			return false
		}
	}
	return true
}

// installExtensions installs only the extensions not already listed.
func installExtensions(r probe.Runner, pr *probe.Prober, wanted []string, log logger.Logger) error {
	if !pr.Available("code") {
		return fmt.Errorf("editor not available, cannot install extensions")
	}
	out, _ := r.Output("code", "--list-extensions")
	installed := strings.ToLower(out)

	var firstErr error
	for _, ext := range wanted {
		if strings.Contains(installed, strings.ToLower(ext)) {
			log.Debug("[DEBUG] Extension %s already installed\n", ext)
			continue
		}
		if err := r.Run("code", "--install-extension", ext); err != nil {
			log.Error("[ERROR] Failed to install extension %s: %v\n", ext, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("install extension %s: %w", ext, err)
			}
		}
	}
	return firstErr
}
