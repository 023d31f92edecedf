package extensions

import (
	"crypto/sha256"
	"path/filepath"
	"strings"
)

// Extension describes a loaded (or loading) extension. Ownership transfers
// to the engine's extension subsystem once registered; the shell keeps the
// descriptor only for display and resource serving.
type Extension struct {
	// ID is the engine-assigned extension identifier.
	ID string
	// Path is the extension path the load was requested with.
	Path string
	// Manifest is the parsed manifest, nil when it could not be read.
	Manifest *Manifest
}

// Origin returns the extension's origin URL.
func (e *Extension) Origin() string {
	return Origin(e.ID)
}

// PopupURL returns the full URL of the browser action popup, or "" when the
// manifest has no browser_action.default_popup.
func (e *Extension) PopupURL() string {
	popup := e.Manifest.DefaultPopup()
	if popup == "" {
		return ""
	}
	return e.Origin() + popup
}

// IconPath returns the resource path of the browser action icon and whether
// it resolves into the bundle, or "" when the manifest has no
// browser_action.default_icon.
func (e *Extension) IconPath() (string, bool) {
	icon := e.Manifest.DefaultIcon()
	if icon == "" {
		return "", false
	}
	return ResourcePath(JoinPath(e.Path, icon))
}

// ComputeID derives the identifier Chromium assigns to an unpacked
// extension: the first half of the SHA-256 of its absolute path, with each
// nibble mapped into the a-p alphabet.
func ComputeID(extensionPath string) string {
	abs, err := filepath.Abs(extensionPath)
	if err != nil {
		abs = extensionPath
	}
	sum := sha256.Sum256([]byte(abs))
	var b strings.Builder
	for _, c := range sum[:16] {
		b.WriteByte('a' + c>>4)
		b.WriteByte('a' + c&0x0f)
	}
	return b.String()
}
