package engine

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/chromeshell/cli/pkg/extensions"
	"github.com/chromeshell/cli/pkg/resources"
	"github.com/chromeshell/cli/pkg/util"
)

// stage materializes an extension into the engine's staging directory and
// returns the unpacked directory Chromium can load. Internal extensions are
// written out from the resource bundle; external zips are extracted;
// external directories are copied so later edits to the source don't leak
// into the running profile.
func (e *Engine) stage(extensionPath string) (string, error) {
	if err := os.MkdirAll(e.stagingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}

	if extensions.IsInternal(extensionPath) {
		return e.stageInternal(extensionPath)
	}
	if strings.HasSuffix(extensionPath, ".zip") {
		return e.stageZip(extensionPath)
	}
	return e.stageDirectory(extensionPath)
}

func (e *Engine) stageInternal(extensionPath string) (string, error) {
	name := extensions.InternalName(extensionPath)
	dest := filepath.Join(e.stagingDir, name)
	err := resources.WalkExtension(name, func(rel string, data []byte) error {
		p := filepath.Join(dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return err
		}
		return os.WriteFile(p, data, 0644)
	})
	if err != nil {
		return "", fmt.Errorf("failed to materialize bundled extension %s: %w", name, err)
	}
	return dest, nil
}

func (e *Engine) stageZip(zipPath string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(zipPath), ".zip")
	dest := filepath.Join(e.stagingDir, name)
	if err := util.Unzip(zipPath, dest); err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", zipPath, err)
	}
	// Some archives wrap the extension in a single top-level directory.
	if _, err := os.Stat(filepath.Join(dest, "manifest.json")); err != nil {
		entries, err := os.ReadDir(dest)
		if err == nil && len(entries) == 1 && entries[0].IsDir() {
			dest = filepath.Join(dest, entries[0].Name())
		}
	}
	return dest, nil
}

func (e *Engine) stageDirectory(dir string) (string, error) {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return "", fmt.Errorf("extension path is not a directory: %s", dir)
	}
	dest := filepath.Join(e.stagingDir, path.Base(strings.ReplaceAll(dir, `\`, "/")))
	if err := util.CopyDir(dir, dest); err != nil {
		return "", fmt.Errorf("failed to copy extension into staging: %w", err)
	}
	return dest, nil
}
