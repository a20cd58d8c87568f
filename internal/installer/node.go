package installer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"devstrap/internal/backend"
	"devstrap/internal/logger"
	"devstrap/internal/probe"
)

// nvmInstallScript is the official nvm bootstrap for unix systems.
const nvmInstallScript = `curl -o- https://raw.githubusercontent.com/nvm-sh/nvm/v0.40.1/install.sh | bash`

// distIndexURL lists every published Node.js release, newest first.
const distIndexURL = "https://nodejs.org/dist/index.json"

// NodeInstaller obtains the requested Node.js runtime. The primary path
// delegates to the version manager; when that fails it falls back to a
// direct download of the official archive from nodejs.org.
type NodeInstaller struct {
	Version string // requested version: "lts" or a concrete/partial version
	Backend backend.Backend
	Prober  *probe.Prober
	Runner  probe.Runner
	Log     logger.Logger

	// IndexURL overrides distIndexURL in tests.
	IndexURL string
}

// NvmAvailable reports whether the version manager is usable. On unix nvm is
// a shell function sourced from ~/.nvm/nvm.sh, so PATH lookup cannot see it;
// the script's presence is the real signal. On Windows nvm-windows is a
// normal executable.
func (n *NodeInstaller) NvmAvailable() bool {
	if runtime.GOOS == "windows" {
		return n.Prober.Available("nvm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(home, ".nvm", "nvm.sh"))
	return err == nil
}

// InstallNvm installs the version manager itself: the official install
// script on unix, the package manager on Windows.
func (n *NodeInstaller) InstallNvm() error {
	if runtime.GOOS == "windows" {
		return n.Backend.Install(pkgNvmWindows)
	}
	if err := n.Runner.RunShell(nvmInstallScript); err != nil {
		return fmt.Errorf("nvm install script failed: %w", err)
	}
	return nil
}

// Install obtains the requested runtime, trying nvm first and the direct
// download second. Both failing fails the step.
func (n *NodeInstaller) Install() error {
	if n.NvmAvailable() {
		if err := n.installViaNvm(); err == nil {
			return nil
		}
		n.Log.Warn("[WARN] Version manager install failed. Falling back to direct download...\n")
	} else {
		n.Log.Warn("[WARN] No version manager available. Falling back to direct download...\n")
	}
	return n.installDirect()
}

// installViaNvm delegates to nvm, sourcing it through a shell on unix.
func (n *NodeInstaller) installViaNvm() error {
	if runtime.GOOS == "windows" {
		version := n.Version
		if version == "" || version == "lts" {
			version = "lts"
		}
		if err := n.Runner.Run("nvm", "install", version); err != nil {
			return err
		}
		return n.Runner.Run("nvm", "use", version)
	}

	// The alias subcommand takes the 'lts/*' alias, not the --lts flag.
	installArg, aliasArg := n.Version, n.Version
	if installArg == "" || installArg == "lts" {
		installArg = "--lts"
		aliasArg = "'lts/*'"
	}

	script := fmt.Sprintf(`. "$HOME/.nvm/nvm.sh" && nvm install %s && nvm alias default %s`, installArg, aliasArg)
	return n.Runner.RunShell(script)
}

// installDirect downloads the official archive from nodejs.org, extracts it
// under ~/.devstrap/node, and makes the binaries reachable for the rest of
// the run and for future shells.
func (n *NodeInstaller) installDirect() error {
	version, err := n.resolveVersion()
	if err != nil {
		return err
	}

	archive, err := ArchiveName(version, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("https://nodejs.org/dist/v%s/%s", version, archive)

	tmp := filepath.Join(os.TempDir(), archive)
	n.Log.Info("[INFO] Downloading Node.js v%s from %s\n", version, url)
	if err := downloadFile(url, tmp, n.Log); err != nil {
		return err
	}
	defer os.Remove(tmp)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("unable to resolve user home directory: %w", err)
	}
	targetDir := filepath.Join(home, ".devstrap", "node")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("create target dir %s: %w", targetDir, err)
	}

	if _, err := ExtractArchive(tmp, targetDir); err != nil {
		return fmt.Errorf("failed to extract node archive: %w", err)
	}
	// Node archives wrap everything in a node-vX.Y.Z-os-arch directory.
	if err := flattenIfSingleSubdir(targetDir); err != nil {
		n.Log.Warn("[WARN] Failed to flatten node directory: %v\n", err)
	}

	binDir := filepath.Join(targetDir, "bin")
	if runtime.GOOS == "windows" {
		binDir = targetDir
	}

	// Make node usable by the remaining steps of this run immediately.
	_ = os.Setenv("PATH", prependPath(os.Getenv("PATH"), binDir))

	// Persist for future shells.
	if runtime.GOOS == "windows" {
		if err := n.persistWindowsPath(binDir); err != nil {
			n.Log.Warn("[WARN] Failed to persist PATH for future shells: %v\n", err)
		}
	} else {
		applier := &Applier{Log: n.Log}
		line := fmt.Sprintf(`export PATH="%s:$PATH"`, binDir)
		if err := applier.AppendProfileLines([]string{line}); err != nil {
			n.Log.Warn("[WARN] Failed to update shell profile: %v\n", err)
		}
	}

	n.Log.Info("[INFO] Installed Node.js v%s to %s\n", version, targetDir)
	return nil
}

// persistWindowsPath prepends binDir to the user PATH stored in the
// registry. setx writes a plain REG_SZ, so the current value has to be read
// out and prepended concretely; an unexpanded %PATH% token would be stored
// literally and break the user's PATH.
func (n *NodeInstaller) persistWindowsPath(binDir string) error {
	current := ""
	if out, err := n.Runner.Output("reg", "query", `HKCU\Environment`, "/v", "Path"); err == nil {
		current = parseRegUserPath(out)
	}
	for _, p := range strings.Split(current, ";") {
		if strings.EqualFold(strings.TrimSpace(p), binDir) {
			return nil
		}
	}
	updated := binDir
	if current != "" {
		updated = binDir + ";" + current
	}
	return n.Runner.Run("setx", "PATH", updated)
}

// parseRegUserPath extracts the Path value from `reg query` output, whose
// matching line looks like:
//
//	Path    REG_EXPAND_SZ    C:\Users\me\bin;C:\other
func parseRegUserPath(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && strings.EqualFold(fields[0], "Path") {
			return strings.Join(fields[2:], " ")
		}
	}
	return ""
}

// distEntry is one release in the nodejs.org dist index. The "lts" field is
// either false or the codename string of the LTS line.
type distEntry struct {
	Version string `json:"version"`
	LTS     any    `json:"lts"`
}

func (e distEntry) isLTS() bool {
	_, ok := e.LTS.(string)
	return ok
}

// resolveVersion fetches the dist index and picks the newest release
// matching the request: the newest LTS for "lts", otherwise the newest
// release satisfying the caret constraint of the requested version.
func (n *NodeInstaller) resolveVersion() (string, error) {
	url := n.IndexURL
	if url == "" {
		url = distIndexURL
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("HTTP GET error fetching node release index: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			n.Log.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("node release index fetch failed: HTTP status %d", resp.StatusCode)
	}

	var entries []distEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("failed to decode node release index: %w", err)
	}
	return ResolveVersion(entries, n.Version)
}

// ResolveVersion picks a concrete version out of the release index.
// Entries are assumed newest-first, matching the published index order.
func ResolveVersion(entries []distEntry, want string) (string, error) {
	if want == "" || want == "lts" {
		for _, e := range entries {
			if e.isLTS() {
				return strings.TrimPrefix(e.Version, "v"), nil
			}
		}
		return "", fmt.Errorf("no LTS release found in node release index")
	}

	// A fully specified version is matched exactly.
	want = strings.TrimPrefix(want, "v")
	for _, e := range entries {
		if strings.TrimPrefix(e.Version, "v") == want {
			return want, nil
		}
	}

	c, err := semver.NewConstraint("^" + want)
	if err != nil {
		return "", fmt.Errorf("invalid node version %q: %w", want, err)
	}
	for _, e := range entries {
		v, err := semver.NewVersion(strings.TrimPrefix(e.Version, "v"))
		if err != nil {
			continue
		}
		if c.Check(v) {
			return v.String(), nil
		}
	}
	return "", fmt.Errorf("no node release matches %q", want)
}

// ArchiveName builds the official archive filename for a version/platform,
// e.g. node-v20.11.1-linux-x64.tar.xz or node-v20.11.1-win-x64.zip.
func ArchiveName(version, goos, goarch string) (string, error) {
	var osName string
	switch goos {
	case "darwin":
		osName = "darwin"
	case "linux":
		osName = "linux"
	case "windows":
		osName = "win"
	default:
		return "", fmt.Errorf("unsupported platform: %s", goos)
	}

	var arch string
	switch goarch {
	case "amd64":
		arch = "x64"
	case "arm64":
		arch = "arm64"
	default:
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}

	ext := ".tar.xz"
	if goos == "windows" {
		ext = ".zip"
	}
	return fmt.Sprintf("node-v%s-%s-%s%s", version, osName, arch, ext), nil
}

// downloadFile downloads the content at url and saves it to destPath.
func downloadFile(url, destPath string, log logger.Logger) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Error("[ERROR] Failed to close response body: %v\n", cerr)
		}
	}()
	if resp.StatusCode != 200 {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			log.Error("[ERROR] Failed to close destination file: %v\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}
	log.Debug("[DEBUG] Downloaded archive to: %s\n", destPath)
	return nil
}

// flattenIfSingleSubdir moves contents up one level when destDir contains
// exactly one subdirectory and nothing else.
func flattenIfSingleSubdir(destDir string) error {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	inner := filepath.Join(destDir, entries[0].Name())
	innerEntries, err := os.ReadDir(inner)
	if err != nil {
		return err
	}
	for _, e := range innerEntries {
		if err := os.Rename(filepath.Join(inner, e.Name()), filepath.Join(destDir, e.Name())); err != nil {
			return err
		}
	}
	return os.Remove(inner)
}

// prependPath puts dir at the front of a PATH value unless already present.
func prependPath(pathVar, dir string) string {
	if dir == "" {
		return pathVar
	}
	target := filepath.Clean(dir)
	for _, p := range strings.Split(pathVar, string(os.PathListSeparator)) {
		if filepath.Clean(strings.TrimSpace(p)) == target {
			return pathVar
		}
	}
	if pathVar == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + pathVar
}
