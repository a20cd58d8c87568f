package probe

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"

	"devstrap/internal/logger"
)

// ltsFloorMajor is the lowest Node.js major considered an acceptable match
// when the requested version is the symbolic "lts".
const ltsFloorMajor = 20

// LookPathFunc resolves an executable name on PATH. Injectable so tests can
// simulate tools appearing and disappearing without touching the host.
type LookPathFunc func(name string) (string, error)

// Prober answers "is this tool usable on this machine right now". It backs
// the idempotence of the whole run: anything already present is skipped.
type Prober struct {
	LookPath LookPathFunc
	Runner   Runner
	Log      logger.Logger
}

// New returns a Prober backed by the real PATH lookup.
func New(r Runner, log logger.Logger) *Prober {
	return &Prober{LookPath: exec.LookPath, Runner: r, Log: log}
}

// Available reports whether the named executable resolves on PATH.
// No side effects.
func (p *Prober) Available(name string) bool {
	_, err := p.LookPath(name)
	return err == nil
}

// Version runs the tool with the given version arguments and returns the
// first line of its output. The second return is false when the tool is
// absent or the command fails.
func (p *Prober) Version(name string, args ...string) (string, bool) {
	if !p.Available(name) {
		return "", false
	}
	out, err := p.Runner.Output(name, args...)
	if err != nil {
		return "", false
	}
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return strings.TrimSpace(out), true
}

// NodeSatisfies reports whether the installed Node.js runtime matches the
// requested version. "lts" accepts any major at or above the current LTS
// floor; a concrete version string is treated as a caret constraint, so
// "18" matches any 18.x.y and "20.11" matches 20.11.x and later 20.x.
func (p *Prober) NodeSatisfies(want string) bool {
	out, ok := p.Version("node", "--version")
	if !ok {
		return false
	}
	installed, err := semver.NewVersion(strings.TrimPrefix(out, "v"))
	if err != nil {
		p.Log.Debug("[DEBUG] Could not parse node version %q: %v\n", out, err)
		return false
	}

	constraint := "^" + strings.TrimPrefix(want, "v")
	if want == "" || want == "lts" {
		constraint = fmt.Sprintf(">= %d", ltsFloorMajor)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		p.Log.Debug("[DEBUG] Invalid node version constraint %q: %v\n", constraint, err)
		return false
	}
	return c.Check(installed)
}
