// Package resources serves the shell's bundled assets. Assets are compiled
// into the binary via go:embed; an on-disk resource directory, when
// configured, is consulted first so packagers can override individual files
// without rebuilding.
package resources

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed extensions
var bundle embed.FS

// DirEnv names the environment variable holding the optional on-disk
// resource directory.
const DirEnv = "CHROMESHELL_RESOURCE_DIR"

// Dir returns the configured on-disk resource directory, or "" when none is
// set or the directory does not exist.
func Dir() string {
	dir := strings.TrimSpace(os.Getenv(DirEnv))
	if dir == "" {
		return ""
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return ""
	}
	return dir
}

// Load reads a bundled resource by its forward-slash path (for example
// "extensions/set_page_color/manifest.json"). The on-disk resource
// directory wins over the embedded copy when both have the file.
func Load(name string) ([]byte, error) {
	name = path.Clean(strings.TrimPrefix(name, "/"))

	if dir := Dir(); dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err == nil {
			return data, nil
		}
	}

	data, err := bundle.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("resource %q not found: %w", name, err)
	}
	return data, nil
}

// Exists reports whether a bundled resource is present.
func Exists(name string) bool {
	_, err := Load(name)
	return err == nil
}

// ExtensionNames lists the extensions shipped in the bundle.
func ExtensionNames() ([]string, error) {
	entries, err := bundle.ReadDir("extensions")
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled extensions: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// WalkExtension visits every file of a bundled extension, calling fn with
// the path relative to the extension root and the file contents.
func WalkExtension(name string, fn func(rel string, data []byte) error) error {
	root := path.Join("extensions", name)
	return fs.WalkDir(bundle, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := bundle.ReadFile(p)
		if err != nil {
			return err
		}
		return fn(strings.TrimPrefix(p, root+"/"), data)
	})
}
