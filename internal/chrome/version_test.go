package chrome

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		out      string
		expected string
	}{
		{"Chromium 138.0.7204.92\n", "138.0.7204"},
		{"Google Chrome 126.0.6478.55 \n", "126.0.6478"},
		{"125.0.1", "125.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			v, err := ParseVersion(tt.out)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestParseVersionInvalid(t *testing.T) {
	_, err := ParseVersion("not a browser")
	assert.Error(t, err)
}

func TestCheckSupported(t *testing.T) {
	assert.NoError(t, CheckSupported(semver.MustParse("138.0.7204")))
	assert.NoError(t, CheckSupported(MinSupported))
	assert.Error(t, CheckSupported(semver.MustParse("115.0.5790")))
}
