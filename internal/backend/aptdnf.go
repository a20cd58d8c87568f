package backend

import (
	"fmt"
	"sync"

	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// AptOrDnf installs packages on Linux through apt-get, dnf, or yum,
// whichever Detect found on the machine.
type AptOrDnf struct {
	Manager string // "apt-get", "dnf", or "yum"
	Runner  probe.Runner
	Log     logger.Logger

	updateOnce sync.Once
}

func (a *AptOrDnf) String() string  { return a.Manager }
func (a *AptOrDnf) Command() string { return a.Manager }

// EnsureReady is a no-op: Detect only returns this backend when the manager
// binary already exists, and the index refresh happens lazily on first use.
func (a *AptOrDnf) EnsureReady() error { return nil }

// Install refreshes the package index once per run (apt-get only), then
// installs the packages non-interactively via sudo.
func (a *AptOrDnf) Install(pkg Package) error {
	names := pkg.Dnf
	if a.Manager == "apt-get" {
		names = pkg.Apt
		a.updateOnce.Do(func() {
			if err := a.Runner.Run("sudo", "apt-get", "update"); err != nil {
				a.Log.Warn("[WARN] apt-get update failed, continuing with stale index: %v\n", err)
			}
		})
	}
	if len(names) == 0 {
		return fmt.Errorf("%s has no %s package", pkg.Name, a.Manager)
	}

	args := append([]string{a.Manager, "install", "-y"}, names...)
	if err := a.Runner.Run("sudo", args...); err != nil {
		return fmt.Errorf("%s install %v failed: %w", a.Manager, names, err)
	}
	return nil
}
