package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mode string

const (
	modeFast mode = "fast"
	modeSafe mode = "safe"
)

func newModeNormalizer() *Normalizer[mode] {
	return NewNormalizer("mode", map[string]mode{
		"fast":  modeFast,
		"quick": modeFast,
		"safe":  modeSafe,
	}, modeSafe)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newModeNormalizer()

	tests := []struct {
		name     string
		input    string
		expected mode
	}{
		{"exact match", "fast", modeFast},
		{"case insensitive", "FAST", modeFast},
		{"with spaces", "  safe  ", modeSafe},
		{"alias", "Quick", modeFast},
		{"empty uses default", "", modeSafe},
		{"invalid uses default", "turbo", modeSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Parse(t *testing.T) {
	n := newModeNormalizer()

	v, err := n.Parse(" QUICK ")
	require.NoError(t, err)
	assert.Equal(t, modeFast, v)

	v, err = n.Parse("")
	require.NoError(t, err)
	assert.Equal(t, modeSafe, v)

	_, err = n.Parse("turbo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid mode "turbo"`)
	assert.Contains(t, err.Error(), "fast, quick, safe")
}

func TestNormalizer_KeysIsCopy(t *testing.T) {
	n := newModeNormalizer()
	keys := n.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"fast", "quick", "safe"}, n.Keys())
}
