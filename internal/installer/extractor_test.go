package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Mode: 0755, Size: int64(len(content)), Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "node-v20.18.0-linux-x64.tar.gz")
	writeTarGz(t, src, map[string]string{
		"node-v20.18.0-linux-x64/bin/node": "#!node",
		"node-v20.18.0-linux-x64/README":   "readme",
	})

	dest := t.TempDir()
	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "node-v20.18.0-linux-x64"), top)

	data, err := os.ReadFile(filepath.Join(top, "bin", "node"))
	require.NoError(t, err)
	assert.Equal(t, "#!node", string(data))
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "node-v20.18.0-win-x64.zip")
	writeZip(t, src, map[string]string{
		"node-v20.18.0-win-x64/node.exe": "MZ",
	})

	dest := t.TempDir()
	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "node-v20.18.0-win-x64"), top)

	_, err = os.Stat(filepath.Join(top, "node.exe"))
	assert.NoError(t, err)
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	src := filepath.Join(t.TempDir(), "node.rar")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	_, err := ExtractArchive(src, t.TempDir())
	assert.Error(t, err)
}

func TestExtractRejectsPathEscape(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, src, map[string]string{"../escape": "boom"})

	_, err := ExtractArchive(src, t.TempDir())
	assert.Error(t, err)
}
