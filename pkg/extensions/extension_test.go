package extensions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtension(t *testing.T, manifestJSON string) *Extension {
	t.Helper()
	var m *Manifest
	if manifestJSON != "" {
		var err error
		m, err = ParseManifest([]byte(manifestJSON))
		require.NoError(t, err)
	}
	return &Extension{ID: "abcdefgh", Path: "set_page_color", Manifest: m}
}

func TestExtensionOrigin(t *testing.T) {
	ext := testExtension(t, `{}`)
	assert.Equal(t, "chrome-extension://abcdefgh/", ext.Origin())
}

func TestPopupURL(t *testing.T) {
	ext := testExtension(t, `{"browser_action": {"default_popup": "popup.html"}}`)
	assert.Equal(t, "chrome-extension://abcdefgh/popup.html", ext.PopupURL())
}

func TestPopupURLMissing(t *testing.T) {
	assert.Equal(t, "", testExtension(t, `{}`).PopupURL())
	assert.Equal(t, "", testExtension(t, `{"browser_action": {}}`).PopupURL())
	assert.Equal(t, "", testExtension(t, "").PopupURL())
}

func TestIconPath(t *testing.T) {
	ext := testExtension(t, `{"browser_action": {"default_icon": "icon.png"}}`)
	p, internal := ext.IconPath()
	assert.True(t, internal)
	assert.Equal(t, "extensions/set_page_color/icon.png", p)
}

func TestIconPathExternal(t *testing.T) {
	m, err := ParseManifest([]byte(`{"browser_action": {"default_icon": "icon.png"}}`))
	require.NoError(t, err)
	ext := &Extension{ID: "x", Path: "/opt/exts/other", Manifest: m}

	p, internal := ext.IconPath()
	assert.False(t, internal)
	assert.Equal(t, "/opt/exts/other/icon.png", p)
}

func TestIconPathMissing(t *testing.T) {
	p, internal := testExtension(t, `{}`).IconPath()
	assert.False(t, internal)
	assert.Equal(t, "", p)
}

func TestComputeID(t *testing.T) {
	id := ComputeID("/opt/exts/other")
	assert.Len(t, id, 32)
	for _, c := range id {
		assert.GreaterOrEqual(t, c, 'a')
		assert.LessOrEqual(t, c, 'p')
	}
	// Deterministic, and distinct per path.
	assert.Equal(t, id, ComputeID("/opt/exts/other"))
	assert.NotEqual(t, id, ComputeID("/opt/exts/another"))
}
