package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	data, err := Load("extensions/set_page_color/manifest.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Set Page Color")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("extensions/no_such_extension/manifest.json")
	assert.Error(t, err)
	assert.False(t, Exists("extensions/no_such_extension/manifest.json"))
}

func TestDirOverride(t *testing.T) {
	dir := t.TempDir()
	extDir := filepath.Join(dir, "extensions", "set_page_color")
	require.NoError(t, os.MkdirAll(extDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(extDir, "manifest.json"), []byte(`{"name":"Override"}`), 0644))

	t.Setenv(DirEnv, dir)
	data, err := Load("extensions/set_page_color/manifest.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Override")

	// Files absent from the override directory fall back to the bundle.
	popup, err := Load("extensions/set_page_color/popup.html")
	require.NoError(t, err)
	assert.Contains(t, string(popup), "popup.js")
}

func TestDirUnsetOrMissing(t *testing.T) {
	t.Setenv(DirEnv, "")
	assert.Equal(t, "", Dir())

	t.Setenv(DirEnv, filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, "", Dir())
}

func TestExtensionNames(t *testing.T) {
	names, err := ExtensionNames()
	require.NoError(t, err)
	assert.Contains(t, names, "set_page_color")
}

func TestWalkExtension(t *testing.T) {
	seen := map[string]int{}
	err := WalkExtension("set_page_color", func(rel string, data []byte) error {
		seen[rel] = len(data)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, seen, "manifest.json")
	assert.Contains(t, seen, "popup.html")
	assert.Contains(t, seen, "popup.js")
	assert.Contains(t, seen, "icon.png")
	for rel, n := range seen {
		assert.Greater(t, n, 0, rel)
	}
}
