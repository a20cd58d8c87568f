package backend

import (
	"fmt"

	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// brewInstallScript is the official Homebrew bootstrap, run non-interactively.
const brewInstallScript = `NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`

// Homebrew installs packages through brew on macOS.
type Homebrew struct {
	Runner    probe.Runner
	Available func(name string) bool
	Log       logger.Logger
}

func (h *Homebrew) String() string  { return "Homebrew" }
func (h *Homebrew) Command() string { return "brew" }

// EnsureReady installs Homebrew itself using the official install script.
func (h *Homebrew) EnsureReady() error {
	if h.Available("brew") {
		return nil
	}
	h.Log.Info("[INFO] Homebrew not found. Installing...\n")
	if err := h.Runner.RunShell(brewInstallScript); err != nil {
		return fmt.Errorf("homebrew bootstrap failed: %w", err)
	}
	return nil
}

// Install runs `brew install` (or `brew install --cask` for GUI apps).
func (h *Homebrew) Install(pkg Package) error {
	if pkg.Brew == "" {
		return fmt.Errorf("%s has no Homebrew package", pkg.Name)
	}
	args := []string{"install"}
	if pkg.Cask {
		args = append(args, "--cask")
	}
	args = append(args, pkg.Brew)
	if err := h.Runner.Run("brew", args...); err != nil {
		return fmt.Errorf("brew install %s failed: %w", pkg.Brew, err)
	}
	return nil
}
