package installer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"devstrap/internal/config"
	"devstrap/internal/logger"
)

// Applier copies bundled config templates into the user's profile and
// appends shell-profile lines without ever duplicating them, so repeated
// runs leave the profile untouched.
type Applier struct {
	// Home overrides the user home directory in tests. Empty means the
	// real one.
	Home string
	// Shell overrides shell detection in tests ("zsh" or "bash").
	Shell string
	// DryRun logs every write that would happen without performing it.
	DryRun bool
	Log    logger.Logger
}

// Apply runs the whole config step: templates first, then profile lines.
func (a *Applier) Apply(cfg config.Config) error {
	if err := a.CopyTemplates(cfg.Templates); err != nil {
		return err
	}
	return a.AppendProfileLines(cfg.ProfileLines)
}

// CopyTemplates copies each template into place. A missing template source
// is not an error: the bundle simply doesn't ship that file.
func (a *Applier) CopyTemplates(templates []config.Template) error {
	for _, t := range templates {
		if _, err := os.Stat(t.Source); err != nil {
			a.Log.Debug("[DEBUG] Template %s not present. Skipping.\n", t.Source)
			continue
		}
		target, err := a.expandTarget(t.Target)
		if err != nil {
			return err
		}
		if a.DryRun {
			a.Log.Info("[INFO] Would copy %s to %s\n", t.Source, target)
			continue
		}
		if err := copyFile(t.Source, target); err != nil {
			return fmt.Errorf("failed to copy template %s to %s: %w", t.Source, target, err)
		}
		a.Log.Info("[INFO] Copied %s to %s\n", t.Source, target)
	}
	return nil
}

// AppendProfileLines appends each line to the shell profile file, skipping
// lines the file already contains. The existing-line scan is exact on
// trimmed lines, matching how the lines were written in earlier runs.
func (a *Applier) AppendProfileLines(lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	rcPath, err := a.profilePath()
	if err != nil {
		return err
	}

	// Collect the file's current lines to avoid duplicates.
	existing := make(map[string]bool)
	if f, err := os.Open(rcPath); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		_ = f.Close()
	}

	var file *os.File
	if !a.DryRun {
		file, err = os.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("unable to open %s for appending: %w", rcPath, err)
		}
		defer file.Close()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || existing[trimmed] {
			a.Log.Debug("[DEBUG] Profile line already present or empty: %s\n", trimmed)
			continue
		}
		if a.DryRun {
			a.Log.Info("[INFO] Would add profile line to %s: %s\n", rcPath, trimmed)
			continue
		}
		if _, err := file.WriteString(trimmed + "\n"); err != nil {
			return fmt.Errorf("failed to write profile line %q: %w", trimmed, err)
		}
		a.Log.Info("[INFO] Added profile line: %s\n", trimmed)
		existing[trimmed] = true
	}
	return nil
}

// profilePath picks the shell profile file to append to. On Windows that is
// the PowerShell profile; elsewhere the rc file of the detected shell,
// falling back through the historical bash locations.
func (a *Applier) profilePath() (string, error) {
	home := a.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to resolve user home directory: %w", err)
		}
	}

	if runtime.GOOS == "windows" && a.Shell == "" {
		return filepath.Join(home, "Documents", "WindowsPowerShell", "Microsoft.PowerShell_profile.ps1"), nil
	}

	shell := a.Shell
	if shell == "" {
		shell = detectShell()
	}
	switch shell {
	case "bash":
		// Prefer whichever bash startup file already exists.
		for _, candidate := range []string{".bashrc", ".bash_profile", ".profile"} {
			p := filepath.Join(home, candidate)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
		return filepath.Join(home, ".bashrc"), nil
	default:
		return filepath.Join(home, ".zshrc"), nil
	}
}

// detectShell inspects the SHELL environment variable.
// Returns "zsh" or "bash", defaulting to "zsh" when unknown.
func detectShell() string {
	shell := os.Getenv("SHELL")
	if strings.Contains(shell, "bash") {
		return "bash"
	}
	return "zsh"
}

// expandTarget resolves a template target path, expanding a leading "~/"
// against the applier's home directory.
func (a *Applier) expandTarget(target string) (string, error) {
	if !strings.HasPrefix(target, "~/") && target != "~" {
		return target, nil
	}
	home := a.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to resolve user home directory: %w", err)
		}
	}
	return filepath.Join(home, strings.TrimPrefix(target, "~/")), nil
}

// copyFile copies src to dst verbatim, creating parent directories.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	return nil
}
