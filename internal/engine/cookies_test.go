package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookieManagerSchemes(t *testing.T) {
	cm := newCookieManager(context.Background())
	assert.Empty(t, cm.SupportedSchemes())

	cm.SetSupportedSchemes([]string{"http", "https"})
	assert.Equal(t, []string{"http", "https"}, cm.SupportedSchemes())

	// The returned slice is a copy.
	schemes := cm.SupportedSchemes()
	schemes[0] = "ftp"
	assert.Equal(t, []string{"http", "https"}, cm.SupportedSchemes())
}
