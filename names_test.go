package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamesWithoutAliases(t *testing.T) {
	vp, err := ParseVirtualPixel("Tile")
	require.NoError(t, err)
	assert.Equal(t, VirtualTile, vp)

	lm, err := ParseLayerMethod("mosaic")
	require.NoError(t, err)
	assert.Equal(t, LayerMosaic, lm)

	or, err := ParseOrientation("right-top")
	require.NoError(t, err)
	assert.Equal(t, RightTop, or)

	dm, err := ParseDisposeMethod("PREVIOUS")
	require.NoError(t, err)
	assert.Equal(t, DisposePrevious, dm)

	fk, err := ParseFunctionKind("sinusoid")
	require.NoError(t, err)
	assert.Equal(t, FunctionSinusoid, fk)

	for name, parse := range map[string]func(string) error{
		"virtual pixel": func(s string) error { _, err := ParseVirtualPixel(s); return err },
		"layer method":  func(s string) error { _, err := ParseLayerMethod(s); return err },
		"orientation":   func(s string) error { _, err := ParseOrientation(s); return err },
		"dispose":       func(s string) error { _, err := ParseDisposeMethod(s); return err },
		"function":      func(s string) error { _, err := ParseFunctionKind(s); return err },
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, parse("sideways"), ErrArgumentValue)
		})
	}
}
