package backend

import (
	"fmt"

	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// chocoInstallScript bootstraps Chocolatey via the official PowerShell one-liner.
const chocoInstallScript = `Set-ExecutionPolicy Bypass -Scope Process -Force; [System.Net.ServicePointManager]::SecurityProtocol = [System.Net.ServicePointManager]::SecurityProtocol -bor 3072; iex ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))`

// WinGetOrChoco installs packages on Windows, preferring winget and falling
// back to Chocolatey when winget is unavailable.
type WinGetOrChoco struct {
	Runner    probe.Runner
	Available func(name string) bool
	Log       logger.Logger
}

func (w *WinGetOrChoco) String() string { return "winget/Chocolatey" }

// Command reports whichever manager is present; winget wins ties because it
// ships with modern Windows.
func (w *WinGetOrChoco) Command() string {
	if w.Available("winget") {
		return "winget"
	}
	return "choco"
}

// EnsureReady bootstraps Chocolatey when neither manager is present.
// winget cannot be installed from a script, so choco is the recovery path.
func (w *WinGetOrChoco) EnsureReady() error {
	if w.Available("winget") || w.Available("choco") {
		return nil
	}
	w.Log.Info("[INFO] No Windows package manager found. Installing Chocolatey...\n")
	if err := w.Runner.Run("powershell", "-NoProfile", "-Command", chocoInstallScript); err != nil {
		return fmt.Errorf("chocolatey bootstrap failed: %w", err)
	}
	return nil
}

// Install routes to winget when available, otherwise choco.
func (w *WinGetOrChoco) Install(pkg Package) error {
	if w.Available("winget") && pkg.Winget != "" {
		if err := w.Runner.Run("winget", "install", "--id", pkg.Winget, "-e",
			"--silent", "--accept-package-agreements", "--accept-source-agreements"); err != nil {
			return fmt.Errorf("winget install %s failed: %w", pkg.Winget, err)
		}
		return nil
	}
	if pkg.Choco == "" {
		return fmt.Errorf("%s has no Windows package", pkg.Name)
	}
	if err := w.Runner.Run("choco", "install", pkg.Choco, "-y"); err != nil {
		return fmt.Errorf("choco install %s failed: %w", pkg.Choco, err)
	}
	return nil
}
