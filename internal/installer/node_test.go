package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devstrap/internal/logger"
)

// scriptRunner records commands and shell scripts without executing anything.
type scriptRunner struct {
	commands []string
	scripts  []string
	outputs  map[string]string // canned Output responses by command line
}

func (r *scriptRunner) Run(name string, args ...string) error {
	r.commands = append(r.commands, strings.Join(append([]string{name}, args...), " "))
	return nil
}

func (r *scriptRunner) Output(name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	if out, ok := r.outputs[line]; ok {
		return out, nil
	}
	return "", fmt.Errorf("exit status 1")
}

func (r *scriptRunner) RunShell(script string) error {
	r.scripts = append(r.scripts, script)
	return nil
}

func distIndex() []distEntry {
	// Mirrors the newest-first ordering of the published index.
	return []distEntry{
		{Version: "v23.1.0", LTS: false},
		{Version: "v22.11.0", LTS: "Jod"},
		{Version: "v22.10.0", LTS: false},
		{Version: "v20.18.0", LTS: "Iron"},
		{Version: "v18.20.4", LTS: "Hydrogen"},
		{Version: "v18.19.1", LTS: "Hydrogen"},
	}
}

func TestResolveVersionLTS(t *testing.T) {
	v, err := ResolveVersion(distIndex(), "lts")
	require.NoError(t, err)
	assert.Equal(t, "22.11.0", v, "the newest LTS release wins")

	v, err = ResolveVersion(distIndex(), "")
	require.NoError(t, err)
	assert.Equal(t, "22.11.0", v)
}

func TestResolveVersionMajor(t *testing.T) {
	v, err := ResolveVersion(distIndex(), "18")
	require.NoError(t, err)
	assert.Equal(t, "18.20.4", v, "newest release of the requested major")
}

func TestResolveVersionExact(t *testing.T) {
	v, err := ResolveVersion(distIndex(), "18.19.1")
	require.NoError(t, err)
	assert.Equal(t, "18.19.1", v)
}

func TestResolveVersionNoMatch(t *testing.T) {
	_, err := ResolveVersion(distIndex(), "99")
	assert.Error(t, err)
}

func TestResolveVersionNoLTSInIndex(t *testing.T) {
	_, err := ResolveVersion([]distEntry{{Version: "v23.1.0", LTS: false}}, "lts")
	assert.Error(t, err)
}

func TestInstallViaNvmLTSUsesAliasSyntax(t *testing.T) {
	r := &scriptRunner{}
	n := &NodeInstaller{Version: "lts", Runner: r, Log: logger.Discard()}

	require.NoError(t, n.installViaNvm())
	require.Len(t, r.scripts, 1)
	assert.Contains(t, r.scripts[0], "nvm install --lts")
	assert.Contains(t, r.scripts[0], "nvm alias default 'lts/*'")
	assert.NotContains(t, r.scripts[0], "alias default --lts", "nvm alias rejects the --lts flag")
}

func TestInstallViaNvmConcreteVersion(t *testing.T) {
	r := &scriptRunner{}
	n := &NodeInstaller{Version: "18", Runner: r, Log: logger.Discard()}

	require.NoError(t, n.installViaNvm())
	require.Len(t, r.scripts, 1)
	assert.Contains(t, r.scripts[0], "nvm install 18")
	assert.Contains(t, r.scripts[0], "nvm alias default 18")
}

func TestPersistWindowsPathStoresConcreteValue(t *testing.T) {
	r := &scriptRunner{outputs: map[string]string{
		`reg query HKCU\Environment /v Path`: "HKEY_CURRENT_USER\\Environment\n    Path    REG_EXPAND_SZ    C:\\existing;C:\\other",
	}}
	n := &NodeInstaller{Runner: r, Log: logger.Discard()}

	require.NoError(t, n.persistWindowsPath(`C:\node\bin`))
	assert.Equal(t, []string{`setx PATH C:\node\bin;C:\existing;C:\other`}, r.commands)
	for _, c := range r.commands {
		assert.NotContains(t, c, "%PATH%", "setx stores the value verbatim, so it must already be expanded")
	}
}

func TestPersistWindowsPathSkipsWhenAlreadyPresent(t *testing.T) {
	r := &scriptRunner{outputs: map[string]string{
		`reg query HKCU\Environment /v Path`: "    Path    REG_SZ    C:\\node\\bin;C:\\other",
	}}
	n := &NodeInstaller{Runner: r, Log: logger.Discard()}

	require.NoError(t, n.persistWindowsPath(`C:\node\bin`))
	assert.Empty(t, r.commands)
}

func TestPersistWindowsPathWithoutExistingValue(t *testing.T) {
	r := &scriptRunner{} // reg query fails, no stored user PATH
	n := &NodeInstaller{Runner: r, Log: logger.Discard()}

	require.NoError(t, n.persistWindowsPath(`C:\node\bin`))
	assert.Equal(t, []string{`setx PATH C:\node\bin`}, r.commands)
}

func TestParseRegUserPath(t *testing.T) {
	out := "\r\nHKEY_CURRENT_USER\\Environment\r\n    Path    REG_EXPAND_SZ    C:\\Users\\me\\bin;C:\\Program Files\\Git\\cmd\r\n"
	assert.Equal(t, `C:\Users\me\bin;C:\Program Files\Git\cmd`, parseRegUserPath(out))

	assert.Equal(t, "", parseRegUserPath("ERROR: The system was unable to find the specified registry key or value."))
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"linux", "amd64", "node-v20.18.0-linux-x64.tar.xz"},
		{"linux", "arm64", "node-v20.18.0-linux-arm64.tar.xz"},
		{"darwin", "arm64", "node-v20.18.0-darwin-arm64.tar.xz"},
		{"windows", "amd64", "node-v20.18.0-win-x64.zip"},
	}
	for _, tt := range tests {
		got, err := ArchiveName("20.18.0", tt.goos, tt.goarch)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestArchiveNameUnsupported(t *testing.T) {
	_, err := ArchiveName("20.18.0", "plan9", "amd64")
	assert.Error(t, err)

	_, err = ArchiveName("20.18.0", "linux", "mips")
	assert.Error(t, err)
}

func TestFlattenIfSingleSubdir(t *testing.T) {
	dest := t.TempDir()
	inner := filepath.Join(dest, "node-v20.18.0-linux-x64")
	require.NoError(t, os.MkdirAll(filepath.Join(inner, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(inner, "bin", "node"), []byte("#!"), 0755))

	require.NoError(t, flattenIfSingleSubdir(dest))

	_, err := os.Stat(filepath.Join(dest, "bin", "node"))
	assert.NoError(t, err, "contents must move up one level")
	_, err = os.Stat(inner)
	assert.True(t, os.IsNotExist(err), "the wrapping directory must be gone")
}

func TestFlattenLeavesMultipleEntriesAlone(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README"), []byte("x"), 0644))

	require.NoError(t, flattenIfSingleSubdir(dest))

	_, err := os.Stat(filepath.Join(dest, "bin"))
	assert.NoError(t, err)
}

func TestPrependPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	assert.Equal(t, "/a"+sep+"/b", prependPath("/b", "/a"))
	assert.Equal(t, "/a", prependPath("", "/a"))
	assert.Equal(t, "/a"+sep+"/b", prependPath("/a"+sep+"/b", "/a"), "already-present dir is not duplicated")
	assert.Equal(t, "/b", prependPath("/b", ""))
}
