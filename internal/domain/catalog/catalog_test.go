package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveServiceID(t *testing.T) {
	known := map[string]uint{
		"consulta-general":       1,
		"vacunacion":             2,
		"emergencia":             3,
		"bano-corte":             4,
		"cirugia-menor":          5,
		"control-postoperatorio": 6,
	}
	for slug, want := range known {
		id, err := ResolveServiceID(slug)
		require.NoError(t, err, slug)
		assert.Equal(t, want, id, slug)
	}
}

func TestResolveServiceIDNumericFallback(t *testing.T) {
	id, err := ResolveServiceID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestResolveServiceIDRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "peluqueria", "0", "-3", "1.5"} {
		_, err := ResolveServiceID(raw)
		assert.ErrorIs(t, err, ErrUnknownService, raw)
	}
}
