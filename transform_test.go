package pixel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixel/geometry"
)

func TestFlipFlopInvolution(t *testing.T) {
	orig := noise(t, 7, 5)
	for name, op := range map[string]func(*Image){
		"flip":       (*Image).Flip,
		"flop":       (*Image).Flop,
		"transpose":  (*Image).Transpose,
		"transverse": (*Image).Transverse,
	} {
		t.Run(name, func(t *testing.T) {
			im := orig.Clone()
			op(im)
			assert.False(t, im.Equal(orig))
			op(im)
			assert.True(t, im.Equal(orig))
		})
	}
}

func TestFlip(t *testing.T) {
	im, err := New(2, 3)
	require.NoError(t, err)
	require.NoError(t, im.SetPixel(0, 0, Red))
	im.Flip()
	assert.Equal(t, []float64{1, 0, 0}, sample(t, im, 0, 2))
	im.Flop()
	assert.Equal(t, []float64{1, 0, 0}, sample(t, im, 1, 2))
}

func TestRotate(t *testing.T) {
	orig := noise(t, 15, 10)

	im := orig.Clone()
	require.NoError(t, im.Rotate(360, Black))
	assert.True(t, im.Equal(orig))

	require.NoError(t, im.Rotate(90, Black))
	w, h := im.Size()
	assert.Equal(t, [2]int{10, 15}, [2]int{w, h})
	assert.Equal(t, sample(t, orig, 0, -1), sample(t, im, 0, 0))

	require.NoError(t, im.Rotate(-90, Black))
	assert.True(t, im.Equal(orig))

	big, err := New(150, 100)
	require.NoError(t, err)
	require.NoError(t, big.Rotate(45, Black))
	w, h = big.Size()
	assert.Equal(t, 177, w)
	assert.Equal(t, 177, h)
}

func TestCrop(t *testing.T) {
	im := noise(t, 30, 20)
	want := sample(t, im, 5, 4)
	require.NoError(t, im.Crop(geometry.Crop{
		Left: geometry.Int(5), Top: geometry.Int(4),
		Width: geometry.Int(10), Height: geometry.Int(6),
	}))
	w, h := im.Size()
	assert.Equal(t, [2]int{10, 6}, [2]int{w, h})
	assert.Equal(t, want, sample(t, im, 0, 0))
	assert.Equal(t, Page{X: 5, Y: 4}, im.Page())
}

func TestCropInvalidLeavesImage(t *testing.T) {
	im := noise(t, 30, 20)
	before := im.Clone()
	for _, c := range []geometry.Crop{
		{Left: geometry.Int(25), Width: geometry.Int(10)},
		{Left: geometry.Int(10), Right: geometry.Int(5)},
		{Width: geometry.Int(0), Height: geometry.Int(5)},
	} {
		err := im.Crop(c)
		assert.ErrorIs(t, err, ErrArgumentValue)
		assert.True(t, im.Equal(before))
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		size geometry.Size
		w, h int
	}{
		{geometry.Size{Width: geometry.Int(20), Height: geometry.Int(10)}, 20, 10},
		{geometry.Size{Height: geometry.Int(5)}, 40, 5},
		{geometry.Size{Width: geometry.Int(3)}, 3, 30},
	}
	for _, tt := range tests {
		im := noise(t, 40, 30)
		require.NoError(t, im.Resize(tt.size, FilterUndefined))
		w, h := im.Size()
		assert.Equal(t, [2]int{tt.w, tt.h}, [2]int{w, h})
	}

	im := noise(t, 40, 30)
	require.NoError(t, im.Sample(geometry.Size{Width: geometry.Int(80), Height: geometry.Int(60)}))
	assert.Equal(t, 80, im.Width())

	err := im.Resize(geometry.Size{Width: geometry.Int(0)}, FilterUndefined)
	assert.ErrorIs(t, err, ErrArgumentValue)
}

func TestResizeUniform(t *testing.T) {
	im, err := New(10, 10, WithBackground(Red))
	require.NoError(t, err)
	require.NoError(t, im.Resize(geometry.Size{Width: geometry.Int(23), Height: geometry.Int(7)}, FilterMitchell))
	assert.Equal(t, []float64{1, 0, 0}, sample(t, im, 11, 3))
}

func TestParseResizeFilter(t *testing.T) {
	f, err := ParseResizeFilter("Catrom")
	require.NoError(t, err)
	assert.Equal(t, FilterCatrom, f)
	_, err = ParseResizeFilter("sinc-ish")
	assert.ErrorIs(t, err, ErrArgumentValue)
}

func TestDistortErrors(t *testing.T) {
	im := noise(t, 10, 10)
	before := im.Clone()
	tests := []struct {
		method DistortMethod
		args   []float64
		want   error
	}{
		{DistortAffine, []float64{1, 2, 3}, ErrArgumentValue},
		{DistortPerspective, []float64{0, 0, 0, 0}, ErrArgumentValue},
		{DistortArc, []float64{0}, ErrArgumentValue},
		{DistortAffineProjection, []float64{1, 0, 0, 1, 0, math.NaN()}, ErrArgumentKind},
	}
	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			err := im.Distort(tt.method, tt.args)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, im.Equal(before))
		})
	}
}

func TestDistortIdentity(t *testing.T) {
	im := noise(t, 12, 9)
	orig := im.Clone()
	require.NoError(t, im.Distort(DistortAffineProjection, []float64{1, 0, 0, 1, 0, 0}))
	assert.True(t, im.Equal(orig))
}

func TestTransformGeometryFlags(t *testing.T) {
	tests := []struct {
		name         string
		crop, resize string
		w, h         int
	}{
		{"fill minimum", "", "10x10^", 20, 10},
		{"pixel area", "", "200@", 20, 10},
		{"percent", "", "50%", 20, 10},
		{"shrink only keeps smaller", "", "100x100>", 40, 20},
		{"shrink only", "", "20x20>", 20, 10},
		{"enlarge only", "", "100x100<", 100, 50},
		{"crop", "10x10+5+5", "", 10, 10},
		{"crop then resize", "20x20+0+0", "10x10!", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := noise(t, 40, 20)
			require.NoError(t, im.Transform(tt.crop, tt.resize))
			w, h := im.Size()
			assert.Equal(t, [2]int{tt.w, tt.h}, [2]int{w, h})
		})
	}

	t.Run("malformed geometry leaves image", func(t *testing.T) {
		im := noise(t, 40, 20)
		before := im.Clone()
		assert.ErrorIs(t, im.Transform("10x10+5+5", "fifty%"), ErrArgumentValue)
		assert.ErrorIs(t, im.Transform("axb", ""), ErrArgumentValue)
		assert.True(t, im.Equal(before))
	})
}

func TestResample(t *testing.T) {
	dpi := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		x, y *float64
		w, h int
		resX float64
	}{
		{"double", dpi(144), dpi(144), 20, 20, 144},
		{"half x", dpi(36), nil, 5, 10, 36},
		{"default", nil, nil, 10, 10, 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, err := New(10, 10, WithResolution(72, 72, PixelsPerInch))
			require.NoError(t, err)
			require.NoError(t, im.Resample(tt.x, tt.y, FilterUndefined))
			w, h := im.Size()
			assert.Equal(t, [2]int{tt.w, tt.h}, [2]int{w, h})
			assert.Equal(t, tt.resX, im.Resolution().X)
		})
	}

	t.Run("invalid resolution leaves image", func(t *testing.T) {
		im := noise(t, 10, 10)
		before := im.Clone()
		assert.ErrorIs(t, im.Resample(dpi(-1), nil, FilterUndefined), ErrArgumentValue)
		assert.ErrorIs(t, im.Resample(dpi(math.NaN()), nil, FilterUndefined), ErrArgumentKind)
		assert.True(t, im.Equal(before))
	})
}

func TestImplode(t *testing.T) {
	orig := noise(t, 16, 12)

	im := orig.Clone()
	require.NoError(t, im.Implode(0))
	assert.True(t, im.Equal(orig))

	im = orig.Clone()
	require.NoError(t, im.Implode(0.5))
	w, h := im.Size()
	assert.Equal(t, [2]int{16, 12}, [2]int{w, h})
	assert.Equal(t, sample(t, orig, 0, 0), sample(t, im, 0, 0))
	assert.False(t, im.Equal(orig))

	im = orig.Clone()
	assert.ErrorIs(t, im.Implode(math.Inf(1)), ErrArgumentKind)
	assert.True(t, im.Equal(orig))
}

func TestAutoOrient(t *testing.T) {
	im, err := New(3, 2)
	require.NoError(t, err)
	require.NoError(t, im.SetPixel(0, 0, Red))
	require.NoError(t, im.SetOrientation(RightTop))
	im.AutoOrient()
	w, h := im.Size()
	assert.Equal(t, [2]int{2, 3}, [2]int{w, h})
	assert.Equal(t, TopLeft, im.Orientation())
	assert.Equal(t, []float64{1, 0, 0}, sample(t, im, 1, 0))

	assert.ErrorIs(t, im.SetOrientation(Orientation(42)), ErrArgumentValue)
	assert.Equal(t, TopLeft, im.Orientation())
}
