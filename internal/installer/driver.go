package installer

import (
	"fmt"

	"devstrap/internal/logger"
)

// Status classifies the outcome of one install step.
type Status int

const (
	// StatusAlreadyPresent means the probe found the tool before any
	// install action ran.
	StatusAlreadyPresent Status = iota
	// StatusInstalled means the install action ran and the re-probe
	// confirmed the tool.
	StatusInstalled
	// StatusFailed means the install action errored or the tool was
	// still absent afterwards.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAlreadyPresent:
		return "already present"
	case StatusInstalled:
		return "installed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records the outcome of one step, in step-declaration order.
// Err is non-nil only for StatusFailed and carries the external command's
// failure, so the driver decides the continue/abort policy explicitly
// instead of inheriting it from process-wide abort semantics.
type Result struct {
	Tool   string
	Status Status
	Err    error
}

// Step is one entry in the fixed install sequence.
//   - Name: display name used in logs and the summary report.
//   - Probe: executable whose PATH presence marks the step satisfied.
//   - Satisfied: optional richer check that overrides Probe (e.g. the Node
//     step must also match the requested version).
//   - Run: the install action, delegating to an external package manager.
//   - VersionArgs: arguments the reporter uses to query the tool's version.
//   - Required: a failure here makes the whole run exit non-zero.
//   - Category: coarse grouping used by the granular install subcommands.
type Step struct {
	Name        string
	Probe       string
	Satisfied   func() bool
	Run         func() error
	VersionArgs []string
	Required    bool
	Category    Category
}

// Category groups steps for the granular install subcommands.
type Category string

const (
	// CategoryCore is the package-manager bootstrap every subset needs.
	CategoryCore Category = "core"
	// CategoryRuntime covers the version manager and the runtime itself.
	CategoryRuntime Category = "runtime"
	// CategoryTools covers git, the npm-layer package managers, global
	// packages, and the optional extras.
	CategoryTools Category = "tools"
	// CategoryEditor covers the editor and its extensions.
	CategoryEditor Category = "editor"
)

// FilterSteps keeps the steps belonging to the given categories, preserving
// order. CategoryCore is always kept: nothing installs without the package
// manager in place.
func FilterSteps(steps []Step, categories ...Category) []Step {
	keep := map[Category]bool{CategoryCore: true}
	for _, c := range categories {
		keep[c] = true
	}
	var out []Step
	for _, s := range steps {
		if keep[s.Category] {
			out = append(out, s)
		}
	}
	return out
}

// Driver walks the step list strictly in order, probing before each install
// so repeated runs skip completed work. A failed step never stops the run;
// it is recorded and surfaced in the final summary.
type Driver struct {
	Available func(name string) bool
	Log       logger.Logger
	DryRun    bool
}

// Run executes the steps and returns one Result per step, in order.
// Each tool is probed at most once before its install action.
func (d *Driver) Run(steps []Step) []Result {
	results := make([]Result, 0, len(steps))

	for _, s := range steps {
		if d.satisfied(s) {
			d.Log.Info("[INFO] %s already present. Skipping.\n", s.Name)
			results = append(results, Result{Tool: s.Name, Status: StatusAlreadyPresent})
			continue
		}

		if d.DryRun {
			d.Log.Info("[INFO] (dry-run) Would install %s\n", s.Name)
			results = append(results, Result{Tool: s.Name, Status: StatusInstalled})
			continue
		}

		d.Log.Info("[INFO] Installing %s...\n", s.Name)
		if err := s.Run(); err != nil {
			d.Log.Error("[ERROR] Failed to install %s: %v\n", s.Name, err)
			results = append(results, Result{Tool: s.Name, Status: StatusFailed, Err: err})
			continue
		}

		// Re-probe: the external manager exiting zero is not proof the
		// tool actually landed on PATH.
		if !d.satisfied(s) {
			err := fmt.Errorf("%s still not available after install", s.Name)
			d.Log.Error("[ERROR] %v\n", err)
			results = append(results, Result{Tool: s.Name, Status: StatusFailed, Err: err})
			continue
		}

		d.Log.Info("[INFO] Installed %s\n", s.Name)
		results = append(results, Result{Tool: s.Name, Status: StatusInstalled})
	}

	return results
}

// satisfied evaluates the step's presence check.
func (d *Driver) satisfied(s Step) bool {
	if s.Satisfied != nil {
		return s.Satisfied()
	}
	if s.Probe == "" {
		return false
	}
	return d.Available(s.Probe)
}

// Failed returns the subset of results whose step failed.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

// RequiredFailed reports whether any step marked Required ended in failure.
func RequiredFailed(steps []Step, results []Result) bool {
	required := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Required {
			required[s.Name] = true
		}
	}
	for _, r := range results {
		if r.Status == StatusFailed && required[r.Tool] {
			return true
		}
	}
	return false
}
