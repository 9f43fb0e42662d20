package pixel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawBytes(t *testing.T, im *Image, m string) []byte {
	t.Helper()
	data, err := im.ExportRaw(RawRegion{Map: m, Storage: StorageChar})
	require.NoError(t, err)
	return data
}

func TestNegate8Bit(t *testing.T) {
	im := noise(t, 9, 6)
	before := rawBytes(t, im, "RGB")
	require.NoError(t, im.Negate(false, DefaultChannels))
	after := rawBytes(t, im, "RGB")
	for i := range before {
		assert.Equal(t, 255, int(before[i])+int(after[i]), "sample %d", i)
	}
}

func TestNegateInvolution(t *testing.T) {
	im := noise(t, 9, 6)
	require.NoError(t, im.SetDepth(Depth32F))
	orig := im.Clone()
	require.NoError(t, im.Negate(false, DefaultChannels))
	require.NoError(t, im.Negate(false, DefaultChannels))
	assert.True(t, im.Equal(orig))
}

func TestNegateUnknownChannel(t *testing.T) {
	im := noise(t, 2, 2)
	err := im.Negate(false, ChannelsOf(CyanChannel))
	assert.ErrorIs(t, err, ErrArgumentValue)
}

func TestLevel(t *testing.T) {
	im := gradient(t, 4, 16)
	require.NoError(t, im.Evaluate(EvaluateMultiply, 0.98, DefaultChannels))
	require.NoError(t, im.Level(0.99, 1, 1, DefaultChannels))
	for _, v := range rawBytes(t, im, "I") {
		assert.Zero(t, v)
	}

	im = gradient(t, 4, 16)
	require.NoError(t, im.Level(0, 0.01, 1, DefaultChannels))
	for y := 0; y < 15; y++ {
		assert.Equal(t, []float64{1}, sample(t, im, 0, y))
	}

	assert.ErrorIs(t, im.Level(0.5, 0.5, 1, DefaultChannels), ErrArgumentValue)
	assert.ErrorIs(t, im.Level(0, 1, 0, DefaultChannels), ErrArgumentValue)
	assert.ErrorIs(t, im.Level(math.NaN(), 1, 1, DefaultChannels), ErrArgumentKind)
}

func TestThreshold(t *testing.T) {
	im := gradient(t, 8, 40)
	require.NoError(t, im.Threshold(0.5, DefaultChannels))
	for y := range 10 {
		assert.Equal(t, []float64{1}, sample(t, im, 3, y), "row %d", y)
		assert.Equal(t, []float64{0}, sample(t, im, 3, 39-y), "row %d", 39-y)
	}
}

func TestEvaluate(t *testing.T) {
	im, err := New(2, 2, WithBackground(GrayColor(0.5)))
	require.NoError(t, err)

	require.NoError(t, im.Evaluate(EvaluateMultiply, 2, DefaultChannels))
	assert.Equal(t, []float64{1, 1, 1}, sample(t, im, 0, 0))

	require.NoError(t, im.Evaluate(EvaluateSet, 0, ChannelsOf(GreenChannel)))
	assert.Equal(t, []float64{1, 0, 1}, sample(t, im, 1, 1))

	before := im.Clone()
	assert.ErrorIs(t, im.Evaluate(EvaluateDivide, 0, DefaultChannels), ErrOperationFailed)
	assert.ErrorIs(t, im.Evaluate(EvaluateLog, -1, DefaultChannels), ErrArgumentValue)
	assert.ErrorIs(t, im.Evaluate(EvaluateAdd, math.Inf(1), DefaultChannels), ErrArgumentKind)
	assert.True(t, im.Equal(before))
}

func TestParseEvaluateOperator(t *testing.T) {
	e, err := ParseEvaluateOperator("Threshold-White")
	require.NoError(t, err)
	assert.Equal(t, EvaluateThresholdWhite, e)
	e, err = ParseEvaluateOperator("sin")
	require.NoError(t, err)
	assert.Equal(t, EvaluateSine, e)
	_, err = ParseEvaluateOperator("frobnicate")
	assert.ErrorIs(t, err, ErrArgumentValue)
}

func TestFx(t *testing.T) {
	im := gradient(t, 3, 5)
	out, err := im.Fx("1 - u", DefaultChannels)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, sample(t, out, 0, 0))
	assert.Equal(t, []float64{1}, sample(t, im, 0, 0))

	_, err = im.Fx("1 / 0", DefaultChannels)
	assert.ErrorIs(t, err, ErrOperationFailed)
	_, err = im.Fx("(1 +", DefaultChannels)
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestNormalize(t *testing.T) {
	im, err := New(4, 1, WithModel(ModelGray))
	require.NoError(t, err)
	for x, v := range []float64{0.25, 0.5, 0.5, 0.75} {
		require.NoError(t, im.SetSamples(x, 0, v))
	}
	require.NoError(t, im.Normalize(DefaultChannels))
	assert.Equal(t, []float64{0}, sample(t, im, 0, 0))
	assert.Equal(t, []float64{1}, sample(t, im, 3, 0))
}

func TestPosterize(t *testing.T) {
	im := gradient(t, 2, 32)
	require.NoError(t, im.Posterize(2, DitherNone))
	for _, v := range rawBytes(t, im, "I") {
		assert.Contains(t, []byte{0, 255}, v)
	}
	assert.ErrorIs(t, im.Posterize(1, DitherNone), ErrArgumentValue)
}

func TestQuantizeColors(t *testing.T) {
	im := noise(t, 16, 16)
	require.NoError(t, im.Quantize(8, DitherNone))
	assert.LessOrEqual(t, im.CountColors(), 8)
}

func TestUniqueColors(t *testing.T) {
	im, err := New(4, 4)
	require.NoError(t, err)
	require.NoError(t, im.SetPixel(1, 1, Red))
	require.NoError(t, im.SetPixel(2, 2, Red))
	require.NoError(t, im.SetPixel(3, 3, Blue))
	assert.Equal(t, 3, im.CountColors())
	im.UniqueColors()
	w, h := im.Size()
	assert.Equal(t, [2]int{3, 1}, [2]int{w, h})
	assert.Equal(t, []float64{1, 0, 0}, sample(t, im, 1, 0))
}

// gray32 returns a w x h float gray image filled with v.
func gray32(t *testing.T, w, h int, v float64) *Image {
	t.Helper()
	im, err := New(w, h, WithModel(ModelGray), WithDepth(Depth32F))
	require.NoError(t, err)
	for y := range h {
		for x := range w {
			require.NoError(t, im.SetSamples(x, y, v))
		}
	}
	return im
}

func TestGamma(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		ch    Channels
		want  float64
		err   error
	}{
		{"brighten", 2, DefaultChannels, 0.5, nil},
		{"identity", 1, DefaultChannels, 0.25, nil},
		{"zero", 0, DefaultChannels, 0, ErrArgumentValue},
		{"negative", -2, DefaultChannels, 0, ErrArgumentValue},
		{"nan", math.NaN(), DefaultChannels, 0, ErrArgumentKind},
		{"missing channel", 2, ChannelsOf(CyanChannel), 0, ErrArgumentValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := gray32(t, 3, 3, 0.25)
			before := im.Clone()
			err := im.Gamma(tt.value, tt.ch)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.True(t, im.Equal(before))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, sample(t, im, 1, 1)[0], 1e-6)
		})
	}
}

func TestFunction(t *testing.T) {
	tests := []struct {
		name string
		kind FunctionKind
		args []float64
		want float64
		err  error
	}{
		{"polynomial", FunctionPolynomial, []float64{2, 0}, 0.5, nil},
		{"constant", FunctionPolynomial, []float64{0.75}, 0.75, nil},
		{"sinusoid defaults", FunctionSinusoid, []float64{1, 90}, 0.5, nil},
		{"arctan center", FunctionArctan, []float64{1, 0.25, 1, 0.5}, 0.5, nil},
		{"arcsin zero width", FunctionArcsin, []float64{0}, 0, ErrArgumentValue},
		{"no arguments", FunctionPolynomial, nil, 0, ErrArgumentValue},
		{"too many arguments", FunctionArctan, []float64{1, 2, 3, 4, 5}, 0, ErrArgumentValue},
		{"unknown kind", FunctionKind(9), []float64{1}, 0, ErrArgumentValue},
		{"infinite argument", FunctionPolynomial, []float64{math.Inf(1)}, 0, ErrArgumentKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := gray32(t, 2, 2, 0.25)
			before := im.Clone()
			err := im.Function(tt.kind, tt.args, DefaultChannels)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.True(t, im.Equal(before))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, sample(t, im, 0, 0)[0], 1e-6)
		})
	}
}

func TestModulate(t *testing.T) {
	im, err := New(2, 2, WithDepth(Depth32F), WithBackground(Red))
	require.NoError(t, err)
	require.NoError(t, im.Modulate(100, 0, 100))
	for _, v := range sample(t, im, 1, 1) {
		assert.InDelta(t, 0.2126, v, 1e-3)
	}

	im, err = New(2, 2, WithDepth(Depth32F), WithBackground(RGB(0.2, 0.4, 0.6)))
	require.NoError(t, err)
	orig := im.Clone()
	require.NoError(t, im.Modulate(100, 100, 100))
	assert.InDeltaSlice(t, sample(t, orig, 0, 0), sample(t, im, 0, 0), 1e-6)

	for name, args := range map[string][3]float64{
		"negative brightness": {-1, 100, 100},
		"negative saturation": {100, -5, 100},
	} {
		t.Run(name, func(t *testing.T) {
			before := im.Clone()
			assert.ErrorIs(t, im.Modulate(args[0], args[1], args[2]), ErrArgumentValue)
			assert.True(t, im.Equal(before))
		})
	}
	assert.ErrorIs(t, im.Modulate(100, 100, math.NaN()), ErrArgumentKind)
}

func TestTransformColorspace(t *testing.T) {
	im, err := New(3, 3, WithDepth(Depth32F))
	require.NoError(t, err)
	require.NoError(t, im.SetPixel(1, 1, RGB(0.2, 0.5, 0.8)))
	orig := im.Clone()

	require.NoError(t, im.TransformColorspace(LinearRGB))
	assert.Equal(t, LinearRGB, im.ColorSpace())
	assert.Less(t, sample(t, im, 1, 1)[0], 0.2)
	require.NoError(t, im.TransformColorspace(SRGB))
	assert.InDeltaSlice(t, sample(t, orig, 1, 1), sample(t, im, 1, 1), 1e-5)

	require.NoError(t, im.TransformColorspace(GraySpace))
	assert.Equal(t, ModelGray, im.Model())
	require.NoError(t, im.TransformColorspace(SRGB))
	assert.Equal(t, ModelRGB, im.Model())

	before := im.Clone()
	assert.ErrorIs(t, im.TransformColorspace(ColorSpace(99)), ErrArgumentValue)
	assert.True(t, im.Equal(before))
	assert.Equal(t, SRGB, im.ColorSpace())
}

func TestEqualize(t *testing.T) {
	im := gradient(t, 4, 16)
	require.NoError(t, im.Equalize(DefaultChannels))
	assert.Equal(t, []float64{1}, sample(t, im, 0, 0))
	assert.Equal(t, []float64{0}, sample(t, im, 0, 15))

	flat := solid(t, 4, 4, RGB(0.2, 0.4, 0.6))
	orig := flat.Clone()
	require.NoError(t, flat.Equalize(DefaultChannels))
	assert.True(t, flat.Equal(orig))

	im = noise(t, 4, 4)
	before := im.Clone()
	assert.ErrorIs(t, im.Equalize(ChannelsOf(CyanChannel)), ErrArgumentValue)
	assert.True(t, im.Equal(before))
}

// twoLevel returns a gray image whose left half is 0.25 and right half
// 0.75.
func twoLevel(t *testing.T) *Image {
	t.Helper()
	im, err := New(4, 4, WithModel(ModelGray))
	require.NoError(t, err)
	for y := range 4 {
		for x := range 4 {
			v := 0.25
			if x >= 2 {
				v = 0.75
			}
			require.NoError(t, im.SetSamples(x, y, v))
		}
	}
	return im
}

func TestStretch(t *testing.T) {
	stretchers := map[string]func(im *Image, black, white float64) error{
		"contrast": func(im *Image, black, white float64) error {
			return im.ContrastStretch(black, white, DefaultChannels)
		},
		"linear": (*Image).LinearStretch,
	}
	tests := []struct {
		name         string
		black, white float64
		err          error
	}{
		{"clip tenth", 0.1, 0.1, nil},
		{"negative", -0.1, 0.1, ErrArgumentValue},
		{"sum above one", 0.6, 0.6, ErrArgumentValue},
		{"nan", math.NaN(), 0.1, ErrArgumentKind},
	}
	for name, stretch := range stretchers {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				im := twoLevel(t)
				before := im.Clone()
				err := stretch(im, tt.black, tt.white)
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
					assert.True(t, im.Equal(before))
					return
				}
				require.NoError(t, err)
				assert.Equal(t, []float64{0}, sample(t, im, 0, 0))
				assert.Equal(t, []float64{1}, sample(t, im, 3, 3))
			})
		}
	}

	im := twoLevel(t)
	assert.ErrorIs(t, im.ContrastStretch(0.1, 0.1, ChannelsOf(RedChannel)), ErrArgumentValue)
}
