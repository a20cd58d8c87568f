package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnrecognizedFlagFailsBeforeAnyWork(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"install", "--bogus"})

	err := rootCmd.Execute()
	require.Error(t, err, "an unrecognized flag is a fatal usage error")
	assert.Contains(t, err.Error(), "bogus")

	// Nothing may have been written to the user's profile.
	entries, readErr := os.ReadDir(home)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestInstallConfigsDryRunWritesNothing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/zsh")

	cfgPath := filepath.Join(t.TempDir(), "devstrap.yaml")
	cfgData := "devstrap:\n  profile_lines:\n    - export FOO=bar\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgData), 0644))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"install", "configs", "--dry-run", "--config", cfgPath})
	t.Cleanup(func() {
		dryRun = false
		configPath = "devstrap.yaml"
	})

	require.NoError(t, rootCmd.Execute())

	// The shell profile must not have been touched, let alone created.
	_, err := os.Stat(filepath.Join(home, ".zshrc"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnrecognizedArgumentFails(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"install", "everything"})

	err := rootCmd.Execute()
	assert.Error(t, err)
}
