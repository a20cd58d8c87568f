package installer

import (
	"devstrap/internal/logger"
)

// Versioner answers version queries for the summary. *probe.Prober
// satisfies it; tests substitute a canned map.
type Versioner interface {
	Version(name string, args ...string) (string, bool)
}

// Reporter prints the end-of-run summary: every step's current version as
// re-queried from the live system, plus the failures collected by the
// driver. Skipped categories never reach the step list, so they never
// appear here either.
type Reporter struct {
	Versions Versioner
	Log      logger.Logger
}

// Print writes one line per step. results may be nil when reporting the
// current machine state without having run the driver (the status command).
func (r *Reporter) Print(steps []Step, results []Result) {
	byTool := make(map[string]Result, len(results))
	for _, res := range results {
		byTool[res.Tool] = res
	}

	r.Log.Info("[INFO] Summary:\n")
	for _, s := range steps {
		suffix := ""
		if res, ok := byTool[s.Name]; ok {
			suffix = " (" + res.Status.String() + ")"
		}

		if s.Probe == "" || s.VersionArgs == nil {
			// Steps without a version query (extension installs) only
			// report their run status.
			if suffix != "" {
				r.Log.Info("[INFO]   %s:%s\n", s.Name, suffix)
			}
			continue
		}

		if v, ok := r.Versions.Version(s.Probe, s.VersionArgs...); ok {
			r.Log.Info("[INFO]   %s: %s%s\n", s.Name, v, suffix)
		} else {
			// Absence is informational, not an error: the tool may have
			// been skipped on purpose or failed above.
			r.Log.Info("[INFO]   %s: not available%s\n", s.Name, suffix)
		}
	}

	if failed := Failed(results); len(failed) > 0 {
		r.Log.Warn("[WARN] %d step(s) failed:\n", len(failed))
		for _, f := range failed {
			r.Log.Warn("[WARN]   %s: %v\n", f.Tool, f.Err)
		}
		r.Log.Warn("[WARN] Re-run devstrap to retry; completed steps are skipped automatically.\n")
	}
}
