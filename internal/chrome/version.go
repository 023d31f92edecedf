package chrome

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinSupported is the oldest Chromium the shell supports: loading unpacked
// extensions over the DevTools protocol needs 126 or later.
var MinSupported = semver.MustParse("126.0.0")

var versionRe = regexp.MustCompile(`(\d+\.\d+\.\d+(?:\.\d+)?)`)

// Version runs the executable with --version and parses the result.
func Version(ctx context.Context, exe string) (*semver.Version, error) {
	out, err := exec.CommandContext(ctx, exe, "--version").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %s --version: %w", exe, err)
	}
	return ParseVersion(string(out))
}

// ParseVersion extracts a semantic version from browser version output such
// as "Chromium 138.0.7204.92" or "Google Chrome 138.0.7204.92".
func ParseVersion(out string) (*semver.Version, error) {
	m := versionRe.FindString(strings.TrimSpace(out))
	if m == "" {
		return nil, fmt.Errorf("no version in %q", strings.TrimSpace(out))
	}
	// Chromium versions have four segments; semver takes three.
	parts := strings.Split(m, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, fmt.Errorf("failed to parse version %q: %w", m, err)
	}
	return v, nil
}

// CheckSupported returns an error when the version is older than
// MinSupported.
func CheckSupported(v *semver.Version) error {
	if v.LessThan(MinSupported) {
		return fmt.Errorf("browser version %s is older than the minimum supported %s", v, MinSupported)
	}
	return nil
}
