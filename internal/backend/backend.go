package backend

import (
	"fmt"
	"runtime"

	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// Package names one installable tool across every supported package manager.
// An empty field means the corresponding manager cannot install the tool.
type Package struct {
	Name   string   // display name
	Brew   string   // Homebrew formula or cask token
	Cask   bool     // true when Brew refers to a cask
	Winget string   // winget package identifier
	Choco  string   // Chocolatey package name
	Apt    []string // apt package names
	Dnf    []string // dnf/yum package names
}

// Backend is the platform package-manager capability selected once at
// startup. All behavioral platform variance lives behind it.
type Backend interface {
	// String names the backend for logs and the summary report.
	String() string
	// Command is the executable probed to decide whether the package
	// manager itself is present.
	Command() string
	// EnsureReady bootstraps the package manager when it is absent.
	EnsureReady() error
	// Install installs one package, delegating entirely to the external
	// manager. The returned error carries the manager's exit status.
	Install(pkg Package) error
}

// Detect selects the backend for the current operating system.
// Returns an error for unsupported platforms; the caller treats that as
// fatal before any installation begins.
func Detect(r probe.Runner, look probe.LookPathFunc, log logger.Logger) (Backend, error) {
	return detectFor(runtime.GOOS, r, look, log)
}

// detectFor is the GOOS-parameterized body of Detect, split out for tests.
func detectFor(goos string, r probe.Runner, look probe.LookPathFunc, log logger.Logger) (Backend, error) {
	available := func(name string) bool {
		_, err := look(name)
		return err == nil
	}

	switch goos {
	case "darwin":
		return &Homebrew{Runner: r, Available: available, Log: log}, nil

	case "windows":
		return &WinGetOrChoco{Runner: r, Available: available, Log: log}, nil

	case "linux":
		// Probe the managers in order of how common they are.
		for _, mgr := range []string{"apt-get", "dnf", "yum"} {
			if available(mgr) {
				log.Debug("[DEBUG] Detected Linux package manager: %s\n", mgr)
				return &AptOrDnf{Manager: mgr, Runner: r, Log: log}, nil
			}
		}
		return nil, fmt.Errorf("unsupported Linux distribution: none of apt-get, dnf, yum found")

	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// EnsureElevated verifies the process can install machine-wide tooling.
// Windows needs an elevated shell up front; `net session` succeeds only
// with administrator rights. Elsewhere privilege is requested per command
// through sudo, so this is a no-op. Read-only commands never call it.
func EnsureElevated(r probe.Runner) error {
	return ensureElevatedFor(runtime.GOOS, r)
}

// ensureElevatedFor is the GOOS-parameterized body of EnsureElevated.
func ensureElevatedFor(goos string, r probe.Runner) error {
	if goos != "windows" {
		return nil
	}
	if err := r.Run("net", "session"); err != nil {
		return fmt.Errorf("administrator privileges required: re-run from an elevated shell")
	}
	return nil
}
