// Package extensions resolves, loads, and packs browser extensions. An
// "internal" extension ships inside the shell's resource bundle; anything
// else is loaded by the engine from an arbitrary filesystem path.
package extensions

import (
	"path"
	"strings"

	"github.com/chromeshell/cli/pkg/resources"
)

// internalExtensions lists the bundled extensions handled by the shell.
var internalExtensions = []string{
	"set_page_color",
}

// internalPath strips the resource-directory and bundle prefixes when
// present and normalizes separators to forward slashes.
func internalPath(extensionPath string) string {
	p := strings.ReplaceAll(extensionPath, `\`, "/")
	if dir := resources.Dir(); dir != "" {
		prefix := strings.ReplaceAll(dir, `\`, "/")
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		p = strings.TrimPrefix(p, prefix)
	}
	return strings.TrimPrefix(p, "extensions/")
}

// IsInternal reports whether the extension path names a bundled extension,
// by exact match or first path segment.
func IsInternal(extensionPath string) bool {
	return InternalName(extensionPath) != ""
}

// InternalName returns the bundled extension a path refers to, or "" when
// the path is not internal.
func InternalName(extensionPath string) string {
	p := internalPath(extensionPath)
	for _, name := range internalExtensions {
		if p == name || strings.HasPrefix(p, name+"/") {
			return name
		}
	}
	return ""
}

// InternalResourcePath maps an internal extension path to its location in
// the resource bundle. Paths already rooted at the bundle pass through
// unchanged.
func InternalResourcePath(extensionPath string) string {
	return "extensions/" + internalPath(extensionPath)
}

// ResourcePath returns where an extension resource should be read from and
// whether the extension is internal: internal paths map into the resource
// bundle, external paths pass through unchanged.
func ResourcePath(extensionPath string) (string, bool) {
	if IsInternal(extensionPath) {
		return InternalResourcePath(extensionPath), true
	}
	return extensionPath, false
}

// Origin returns the extension's origin URL, "chrome-extension://<id>/".
func Origin(id string) string {
	return "chrome-extension://" + id + "/"
}

// JoinPath joins extension path components with forward slashes.
func JoinPath(elem ...string) string {
	return path.Join(elem...)
}
