package probe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devstrap/internal/logger"
)

// fakeRunner serves canned output per command line.
type fakeRunner struct {
	outputs map[string]string
}

func (f *fakeRunner) Run(name string, args ...string) error { return nil }

func (f *fakeRunner) Output(name string, args ...string) (string, error) {
	key := name
	for _, a := range args {
		key += " " + a
	}
	out, ok := f.outputs[key]
	if !ok {
		return "", fmt.Errorf("command not found: %s", key)
	}
	return out, nil
}

func (f *fakeRunner) RunShell(script string) error { return nil }

func newTestProber(installed map[string]bool, outputs map[string]string) *Prober {
	return &Prober{
		LookPath: func(name string) (string, error) {
			if installed[name] {
				return "/usr/bin/" + name, nil
			}
			return "", fmt.Errorf("%s not found", name)
		},
		Runner: &fakeRunner{outputs: outputs},
		Log:    logger.Discard(),
	}
}

func TestAvailable(t *testing.T) {
	installed := map[string]bool{}
	p := newTestProber(installed, nil)

	assert.False(t, p.Available("node"), "tool should be absent before install")

	// Simulate a successful install action making the tool resolvable.
	installed["node"] = true
	assert.True(t, p.Available("node"), "tool should be present immediately after install")
}

func TestVersion(t *testing.T) {
	p := newTestProber(
		map[string]bool{"node": true},
		map[string]string{"node --version": "v20.11.1"},
	)

	v, ok := p.Version("node", "--version")
	require.True(t, ok)
	assert.Equal(t, "v20.11.1", v)

	_, ok = p.Version("yarn", "--version")
	assert.False(t, ok, "absent tool must not report a version")
}

func TestVersionFirstLineOnly(t *testing.T) {
	p := newTestProber(
		map[string]bool{"code": true},
		map[string]string{"code --version": "1.92.0\nabcdef\nx64"},
	)

	v, ok := p.Version("code", "--version")
	require.True(t, ok)
	assert.Equal(t, "1.92.0", v)
}

func TestNodeSatisfies(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		want      string
		expect    bool
	}{
		{"exact major match", "v18.19.0", "18", true},
		{"major mismatch", "v18.19.0", "20", false},
		{"newer major does not satisfy caret", "v22.5.0", "18", false},
		{"minor floor respected", "v20.10.0", "20.11", false},
		{"minor floor satisfied", "v20.12.2", "20.11", true},
		{"lts accepts current lts", "v22.5.0", "lts", true},
		{"lts rejects ancient runtime", "v16.20.0", "lts", false},
		{"empty request behaves like lts", "v20.11.1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProber(
				map[string]bool{"node": true},
				map[string]string{"node --version": tt.installed},
			)
			assert.Equal(t, tt.expect, p.NodeSatisfies(tt.want))
		})
	}
}

func TestNodeSatisfiesAbsentNode(t *testing.T) {
	p := newTestProber(map[string]bool{}, nil)
	assert.False(t, p.NodeSatisfies("18"))
}
