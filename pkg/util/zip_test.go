package util

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return zipPath
}

func TestUnzip(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"manifest.json": `{"name":"x"}`,
		"sub/popup.js":  "// js",
	})
	dest := t.TempDir()

	require.NoError(t, Unzip(zipPath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "sub", "popup.js"))
	require.NoError(t, err)
	assert.Equal(t, "// js", string(data))
}

func TestUnzipRejectsEscape(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"../evil.txt": "x",
	})
	err := Unzip(zipPath, t.TempDir())
	assert.ErrorContains(t, err, "illegal file path")
}
