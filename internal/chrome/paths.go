// Package chrome locates the local Chromium installation the shell drives.
package chrome

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ExecutableEnv overrides browser executable discovery.
const ExecutableEnv = "CHROMESHELL_CHROME"

// FindExecutable returns the path of the Chromium/Chrome executable,
// honoring the CHROMESHELL_CHROME override first.
func FindExecutable() (string, error) {
	if exe := strings.TrimSpace(os.Getenv(ExecutableEnv)); exe != "" {
		if _, err := os.Stat(exe); err != nil {
			return "", fmt.Errorf("%s points at %s: %w", ExecutableEnv, exe, err)
		}
		return exe, nil
	}

	for _, candidate := range executableCandidates() {
		if filepath.IsAbs(candidate) {
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no Chromium or Chrome executable found (set %s to override)", ExecutableEnv)
}

func executableCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		var candidates []string
		for _, root := range []string{os.Getenv("PROGRAMFILES"), os.Getenv("PROGRAMFILES(X86)"), os.Getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			candidates = append(candidates,
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
			)
		}
		return candidates
	default:
		return []string{
			"chromium",
			"chromium-browser",
			"google-chrome",
			"google-chrome-stable",
		}
	}
}

// UserDataDir returns the default Chrome user data directory for the
// current OS.
func UserDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "Google", "Chrome"), nil
	case "linux":
		return filepath.Join(homeDir, ".config", "google-chrome"), nil
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "Google", "Chrome", "User Data"), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
