package text

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixel/geometry"
)

func canvas(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func changed(img *image.RGBA, r image.Rectangle, bg color.Color) int {
	n := 0
	want := color.RGBAModel.Convert(bg)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.At(x, y) != want {
				n++
			}
		}
	}
	return n
}

func TestRenderInsideBox(t *testing.T) {
	bg := color.RGBA{0x1e, 0x50, 0xa2, 0xff}
	img := canvas(144, 192, bg)
	box := image.Rect(5, 144, 139, 164)
	ts := NewTypesetter()
	err := ts.Render(img, box, "Test message", &Font{Size: 12, Color: color.RGBA{0xff, 0xd7, 0, 0xff}}, geometry.Center)
	require.NoError(t, err)

	assert.Positive(t, changed(img, box, bg), "no glyph pixels inside the box")
	assert.Zero(t, changed(img, image.Rect(0, 0, 144, 144), bg), "pixels drawn above the box")
	assert.Zero(t, changed(img, image.Rect(0, 164, 144, 192), bg), "pixels drawn below the box")
}

func TestRenderHardEdges(t *testing.T) {
	img := canvas(80, 30, color.White)
	ts := NewTypesetter()
	require.NoError(t, ts.Render(img, img.Bounds(), "Hard", &Font{Size: 20, Color: color.Black}, geometry.NorthWest))
	for _, v := range img.Pix {
		assert.Contains(t, []uint8{0, 0xff}, v)
	}
}

func TestRenderEmpty(t *testing.T) {
	img := canvas(10, 10, color.White)
	ts := NewTypesetter()
	require.NoError(t, ts.Render(img, img.Bounds(), "", &Font{}, geometry.Center))
	assert.Zero(t, changed(img, img.Bounds(), color.White))
}

func TestRenderNilFont(t *testing.T) {
	img := canvas(10, 10, color.White)
	assert.Error(t, NewTypesetter().Render(img, img.Bounds(), "x", nil, geometry.Center))
}

func TestRenderBadFont(t *testing.T) {
	img := canvas(10, 10, color.White)
	err := NewTypesetter().Render(img, img.Bounds(), "x", &Font{Data: []byte("not a font"), Size: 8}, geometry.Center)
	assert.Error(t, err)
}

func TestLayoutWraps(t *testing.T) {
	ts := NewTypesetter()
	l, err := ts.Layout("one two three four five six", &Font{Size: 16}, 80, 0)
	require.NoError(t, err)
	assert.Greater(t, len(l.Lines), 1)
	for _, ln := range l.Lines[:len(l.Lines)-1] {
		assert.LessOrEqual(t, ln.Width, 80.0, ln.Text)
	}
}

func TestLayoutNewlines(t *testing.T) {
	l, err := NewTypesetter().Layout("a\n\nb", &Font{Size: 10}, 0, 0)
	require.NoError(t, err)
	require.Len(t, l.Lines, 3)
	assert.Equal(t, "", l.Lines[1].Text)
}

func TestLayoutFitsBox(t *testing.T) {
	l, err := NewTypesetter().Layout("Fit me", &Font{}, 120, 40)
	require.NoError(t, err)
	assert.LessOrEqual(t, l.Height(), 40)
	assert.LessOrEqual(t, l.Width(), 120.0)
	assert.Greater(t, l.Size, float64(minFitSize))
}

func TestIsRTL(t *testing.T) {
	assert.False(t, isRTL("hello"))
	assert.True(t, isRTL("שלום"))
}
