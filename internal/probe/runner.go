package probe

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"devstrap/internal/logger"
)

// Runner executes external commands. Every package-manager and version-manager
// invocation in this program goes through it, so a fake Runner is all a test
// needs to simulate an entire machine.
type Runner interface {
	// Run executes the command and returns its error status. Combined
	// output is logged when the command fails.
	Run(name string, args ...string) error
	// Output executes the command and returns its trimmed stdout.
	Output(name string, args ...string) (string, error)
	// RunShell executes a script through the platform shell. Needed for
	// tools like nvm that are shell functions rather than binaries.
	RunShell(script string) error
}

// SystemRunner is the real Runner backed by os/exec.
type SystemRunner struct {
	Log logger.Logger
}

// NewSystemRunner returns a Runner that executes commands on the host.
func NewSystemRunner(log logger.Logger) *SystemRunner {
	return &SystemRunner{Log: log}
}

// Run executes the command and captures combined output instead of streaming,
// so a failing package manager's noise only appears when it actually failed.
func (r *SystemRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	// Child processes that honor NO_COLOR keep their output plain.
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	r.Log.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		r.Log.Error("[ERROR] Command failed: %s %s: %v\n", name, strings.Join(args, " "), err)
		if trimmed := strings.TrimSpace(string(output)); trimmed != "" {
			r.Log.Error("[ERROR] Command output:\n%s\n", indent(trimmed))
		}
	}
	return err
}

// Output executes the command and returns whitespace-trimmed stdout.
func (r *SystemRunner) Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	r.Log.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// RunShell executes a script through a login shell on unix so profile-sourced
// tools (nvm in particular) are in scope, or through cmd.exe on Windows.
func (r *SystemRunner) RunShell(script string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", script)
	} else {
		cmd = exec.Command("sh", "-lc", script)
	}
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	r.Log.Debug("[DEBUG] Running shell script: %s\n", script)

	output, err := cmd.CombinedOutput()
	if err != nil {
		r.Log.Error("[ERROR] Shell script failed: %s: %v\n", script, err)
		if trimmed := strings.TrimSpace(string(output)); trimmed != "" {
			r.Log.Error("[ERROR] Script output:\n%s\n", indent(trimmed))
		}
	}
	return err
}

// indent prefixes each non-empty line for readable nested command output.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, "   "+line)
		}
	}
	return strings.Join(out, "\n")
}
