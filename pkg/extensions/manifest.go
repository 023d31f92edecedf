package extensions

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Manifest is an extension's parsed manifest.json: an immutable key/value
// tree queried by gjson dot paths.
type Manifest struct {
	raw []byte
}

// ErrManifestNotObject is returned when manifest JSON is valid but its top
// level is not an object.
var ErrManifestNotObject = errors.New("manifest top level is not an object")

// ParseManifest validates and wraps manifest JSON. The bytes must be valid
// JSON with an object at the top level.
func ParseManifest(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("manifest is not valid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, ErrManifestNotObject
	}
	raw := append([]byte(nil), data...)
	return &Manifest{raw: raw}, nil
}

// Get returns the string value at a gjson dot path, or "" when absent.
// A nil Manifest returns "" for every path.
func (m *Manifest) Get(path string) string {
	if m == nil {
		return ""
	}
	return gjson.GetBytes(m.raw, path).String()
}

// Name returns the manifest "name" value.
func (m *Manifest) Name() string { return m.Get("name") }

// Version returns the manifest "version" value.
func (m *Manifest) Version() string { return m.Get("version") }

// DefaultPopup returns browser_action.default_popup, or "".
func (m *Manifest) DefaultPopup() string { return m.Get("browser_action.default_popup") }

// DefaultIcon returns browser_action.default_icon, or "".
func (m *Manifest) DefaultIcon() string { return m.Get("browser_action.default_icon") }

// Raw returns the manifest bytes.
func (m *Manifest) Raw() []byte {
	if m == nil {
		return nil
	}
	return append([]byte(nil), m.raw...)
}
