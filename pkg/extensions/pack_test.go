package extensions

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExtensionDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`{"name":"x","version":"1.0"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "popup.html"), []byte("<html>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "dep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "dep", "index.js"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debug.log"), []byte("x"), 0644))
	return dir
}

func zipNames(t *testing.T, zipPath string) []string {
	t.Helper()
	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestPack(t *testing.T) {
	dir := writeExtensionDir(t)
	out := filepath.Join(t.TempDir(), "ext.zip")

	stats, err := Pack(dir, out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesIncluded)
	assert.Greater(t, stats.BytesIncluded, int64(0))

	names := zipNames(t, out)
	assert.ElementsMatch(t, []string{"manifest.json", "popup.html"}, names)
}

func TestPackRequiresManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := Pack(dir, filepath.Join(t.TempDir(), "ext.zip"))
	assert.ErrorContains(t, err, "manifest.json")
}

func TestPackRejectsBadManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`[]`), 0644))
	_, err := Pack(dir, filepath.Join(t.TempDir(), "ext.zip"))
	assert.ErrorContains(t, err, "invalid manifest.json")
}
