package pixel

import (
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixel/geometry"
)

func solid(t *testing.T, w, h int, c Color) *Image {
	t.Helper()
	im, err := New(w, h, WithBackground(c))
	require.NoError(t, err)
	return im
}

func layered(t *testing.T, frames ...*Frame) *Sequence {
	t.Helper()
	s, err := NewSequence(frames...)
	require.NoError(t, err)
	return s
}

func TestSequenceFrames(t *testing.T) {
	s := layered(t, NewFrame(solid(t, 2, 2, Red)), NewFrame(solid(t, 3, 3, Blue)))
	assert.Equal(t, 2, s.Len())

	last, err := s.Frame(-1)
	require.NoError(t, err)
	assert.Equal(t, 3, last.Image.Width())

	_, err = s.Frame(2)
	assert.ErrorIs(t, err, ErrRange)
	_, err = s.Frame(-3)
	assert.ErrorIs(t, err, ErrRange)

	err = s.Append(&Frame{Image: solid(t, 1, 1, Red), Delay: -1})
	assert.ErrorIs(t, err, ErrArgumentValue)
	assert.ErrorIs(t, s.Append(&Frame{}), ErrArgumentKind)
	assert.Equal(t, 2, s.Len())
}

func TestAppendSequenceCopies(t *testing.T) {
	src := layered(t, NewFrame(solid(t, 2, 2, Red)))
	dst := layered(t)
	require.NoError(t, dst.AppendSequence(src))
	require.Equal(t, 1, dst.Len())

	f, _ := dst.Frame(0)
	f.Image.Fill(Blue)
	orig, _ := src.Frame(0)
	assert.Equal(t, []float64{1, 0, 0}, sample(t, orig.Image, 0, 0))
}

func TestSequenceEach(t *testing.T) {
	s := layered(t, NewFrame(solid(t, 2, 2, White)), NewFrame(solid(t, 2, 2, White)), NewFrame(solid(t, 2, 2, White)))
	require.NoError(t, s.Each(func(_ int, f *Frame) error {
		return f.Image.Negate(false, DefaultChannels)
	}))
	for _, f := range s.Frames() {
		assert.Equal(t, []float64{0, 0, 0}, sample(t, f.Image, 1, 1))
	}

	err := s.Each(func(i int, f *Frame) error {
		if i == 1 {
			return f.Image.Level(0.5, 0.5, 1, DefaultChannels)
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrArgumentValue)
}

func TestMergeLayersFlatten(t *testing.T) {
	base := solid(t, 16, 16, Black)
	layer := solid(t, 32, 32, White)
	require.NoError(t, layer.Crop(geometry.Crop{
		Left: geometry.Int(8), Top: geometry.Int(8),
		Width: geometry.Int(16), Height: geometry.Int(16),
	}))
	require.NoError(t, layer.SetPage(Page{}))
	s := layered(t, NewFrame(base), NewFrame(layer))

	out, err := s.MergeLayers(LayerFlatten)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	f, _ := out.Frame(0)
	w, h := f.Image.Size()
	assert.Equal(t, [2]int{16, 16}, [2]int{w, h})
	assert.Equal(t, []float64{1, 1, 1}, sample(t, f.Image, 8, 8))
	assert.Equal(t, 2, s.Len())
}

func TestMergeLayersMerge(t *testing.T) {
	base := NewFrame(solid(t, 16, 16, Black))
	over := NewFrame(solid(t, 16, 16, White))
	over.Page = Page{X: -8, Y: -8}
	s := layered(t, base, over)

	out, err := s.MergeLayers(LayerMerge)
	require.NoError(t, err)
	f, _ := out.Frame(0)
	w, h := f.Image.Size()
	assert.Equal(t, [2]int{24, 24}, [2]int{w, h})
	assert.Equal(t, -8, f.Page.X)
	assert.Equal(t, -8, f.Page.Y)
	assert.Equal(t, []float64{1, 1, 1}, sample(t, f.Image, 0, 0))
	assert.Equal(t, []float64{0, 0, 0}, sample(t, f.Image, -1, -1))

	out, err = s.MergeLayers(LayerMosaic)
	require.NoError(t, err)
	f, _ = out.Frame(0)
	w, h = f.Image.Size()
	assert.Equal(t, [2]int{16, 16}, [2]int{w, h})
	assert.Equal(t, []float64{1, 1, 1}, sample(t, f.Image, 7, 7))
	assert.Equal(t, []float64{0, 0, 0}, sample(t, f.Image, 8, 8))

	_, err = s.MergeLayers(LayerMethod(9))
	assert.ErrorIs(t, err, ErrArgumentValue)
	_, err = ParseLayerMethod("blend")
	assert.ErrorIs(t, err, ErrArgumentValue)
	_, err = layered(t).MergeLayers(LayerMerge)
	assert.ErrorIs(t, err, ErrArgumentValue)
}

func TestCoalesce(t *testing.T) {
	first := NewFrame(solid(t, 8, 8, Red))
	second := NewFrame(solid(t, 2, 2, Blue))
	second.Page = Page{X: 3, Y: 3}
	second.Dispose = DisposePrevious
	third := NewFrame(solid(t, 1, 1, Green))
	s := layered(t, first, second, third)

	out, err := s.Coalesce()
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	for _, f := range out.Frames() {
		assert.Equal(t, 8, f.Image.Width())
		assert.Equal(t, 8, f.Image.Height())
		assert.Equal(t, ModelRGBA, f.Image.Model())
	}
	f1, _ := out.Frame(1)
	assert.Equal(t, []float64{0, 0, 1, 1}, sample(t, f1.Image, 3, 3))
	f2, _ := out.Frame(2)
	assert.Equal(t, []float64{1, 0, 0, 1}, sample(t, f2.Image, 3, 3))
	assert.Equal(t, []float64{0, 1, 0, 1}, sample(t, f2.Image, 0, 0))
}

func TestOptimizeLayers(t *testing.T) {
	a := solid(t, 6, 6, Red)
	b := a.Clone()
	require.NoError(t, b.SetPixel(2, 3, Blue))
	require.NoError(t, b.SetPixel(4, 4, Blue))
	c := b.Clone()
	s := layered(t, NewFrame(a), NewFrame(b), NewFrame(c))

	opt, err := s.OptimizeLayers()
	require.NoError(t, err)
	require.Equal(t, 3, opt.Len())
	f1, _ := opt.Frame(1)
	assert.Equal(t, [2]int{3, 2}, [2]int{f1.Image.Width(), f1.Image.Height()})
	assert.Equal(t, Page{Width: 6, Height: 6, X: 2, Y: 3}, f1.Page)
	f2, _ := opt.Frame(2)
	assert.Equal(t, 1, f2.Image.Width())

	want, err := s.Coalesce()
	require.NoError(t, err)
	got, err := opt.Coalesce()
	require.NoError(t, err)
	for i := range want.Len() {
		w, _ := want.Frame(i)
		g, _ := got.Frame(i)
		assert.True(t, w.Image.Equal(g.Image), "frame %d", i)
	}
}

func TestOptimizeTransparency(t *testing.T) {
	a := solid(t, 4, 4, Red)
	b := a.Clone()
	require.NoError(t, b.SetPixel(1, 1, Blue))
	s := layered(t, NewFrame(a), NewFrame(b))

	opt, err := s.OptimizeTransparency()
	require.NoError(t, err)
	f, _ := opt.Frame(1)
	assert.Equal(t, ModelRGBA, f.Image.Model())
	assert.Equal(t, 0.0, sample(t, f.Image, 0, 0)[3])
	assert.Equal(t, []float64{0, 0, 1, 1}, sample(t, f.Image, 1, 1))

	want, _ := s.Coalesce()
	got, _ := opt.Coalesce()
	w, _ := want.Frame(1)
	g, _ := got.Frame(1)
	assert.True(t, w.Image.Equal(g.Image))
}

func TestConcat(t *testing.T) {
	s := layered(t, NewFrame(solid(t, 3, 2, Red)), NewFrame(solid(t, 2, 4, Blue)))
	out, err := s.Concat(false)
	require.NoError(t, err)
	f, _ := out.Frame(0)
	assert.Equal(t, [2]int{5, 4}, [2]int{f.Image.Width(), f.Image.Height()})
	assert.Equal(t, []float64{0, 0, 1}, sample(t, f.Image, 3, 0))

	out, err = s.Concat(true)
	require.NoError(t, err)
	f, _ = out.Frame(0)
	assert.Equal(t, [2]int{3, 6}, [2]int{f.Image.Width(), f.Image.Height()})
}

func TestFromGIF(t *testing.T) {
	pal := color.Palette{color.Black, color.White}
	p0 := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	p1 := image.NewPaletted(image.Rect(1, 2, 3, 3), pal)
	p1.Pix[0] = 1
	g := &gif.GIF{
		Image:    []*image.Paletted{p0, p1},
		Delay:    []int{10, 20},
		Disposal: []byte{gif.DisposalNone, gif.DisposalBackground},
		Config:   image.Config{Width: 4, Height: 4},
	}
	s, err := FromGIF(g)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	f, _ := s.Frame(1)
	assert.Equal(t, 20, f.Delay)
	assert.Equal(t, DisposeBackground, f.Dispose)
	assert.Equal(t, Page{Width: 4, Height: 4, X: 1, Y: 2}, f.Page)
	assert.Equal(t, []float64{1, 1, 1, 1}, sample(t, f.Image, 0, 0))

	back, err := s.GIF()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1, 2, 3, 3), back.Image[1].Bounds())
	assert.Equal(t, []int{10, 20}, back.Delay)

	_, err = FromGIF(&gif.GIF{})
	assert.ErrorIs(t, err, ErrArgumentValue)
}
