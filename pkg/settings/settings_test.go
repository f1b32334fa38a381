package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tableflip.dev/carry/pkg/keymap"
	"tableflip.dev/carry/pkg/marker"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ".carry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsWithoutFile(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Version, s.SettingsVersion)
	assert.Equal(t, "todo", s.Workflow)
	assert.Equal(t, marker.DefaultDelimiters, s.Highlight)
	assert.Equal(t, "diskv", s.Driver())
	assert.False(t, s.Reset)
	assert.Empty(t, s.File)
	assert.NotContains(t, s.BasePath(), "~")

	km, err := s.Keymap()
	require.NoError(t, err)
	a, ok := km.Lookup("mod+1")
	require.True(t, ok)
	assert.Equal(t, keymap.ToggleMarker, a.Key)
}

func TestCurrentFileIsRead(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `settingsVersion: v1
workflow: now
keyBindings:
  toggle-marker: mod+shift+t
highlight:
  open: "**"
  close: "**"
store:
  path: /tmp/carry-test
  driver: sqlite
`)
	s, err := Load(dir)
	require.NoError(t, err)

	w, err := s.ParsedWorkflow()
	require.NoError(t, err)
	assert.Equal(t, marker.NowWorkflow, w)
	assert.Equal(t, marker.Delimiters{Open: "**", Close: "**"}, s.Highlight)
	assert.Equal(t, "/tmp/carry-test", s.BasePath())
	assert.Equal(t, "sqlite", s.Driver())
	assert.False(t, s.Reset)

	km, err := s.Keymap()
	require.NoError(t, err)
	_, ok := km.Lookup("mod+shift+t")
	assert.True(t, ok)
}

func TestStaleFileIsReplaced(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `settingsVersion: v0
workflow: now
disabled: true
`)
	s, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, s.Reset)
	assert.Equal(t, "todo", s.Workflow)
	assert.False(t, s.Disabled)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	written := map[string]any{}
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, Version, written["settingsversion"])

	again, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, again.Reset)
}

func TestMissingVersionIsStale(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "workflow: now\n")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, s.Reset)
	assert.Equal(t, "todo", s.Workflow)
}

func TestBadWorkflow(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "settingsVersion: v1\nworkflow: someday\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CARRY_WORKFLOW", "now")
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "now", s.Workflow)
}
