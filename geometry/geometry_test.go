package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixel/internal/errs"
)

func TestParseGravity(t *testing.T) {
	for _, name := range []string{"north_west", "northwest", "NorthWest", " NORTH_WEST "} {
		g, err := ParseGravity(name)
		require.NoError(t, err, name)
		assert.Equal(t, NorthWest, g)
	}
	g, err := ParseGravity("center")
	require.NoError(t, err)
	assert.Equal(t, "center", g.String())

	_, err = ParseGravity("nowhere")
	assert.ErrorIs(t, err, errs.ErrArgumentValue)
}

func TestGravityOffset(t *testing.T) {
	tests := []struct {
		g    Gravity
		x, y int
	}{
		{GravityUndefined, 0, 0},
		{NorthWest, 0, 0},
		{North, 35, 0},
		{NorthEast, 70, 0},
		{West, 0, 25},
		{Center, 35, 25},
		{East, 70, 25},
		{SouthWest, 0, 50},
		{South, 35, 50},
		{SouthEast, 70, 50},
	}
	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			x, y := tt.g.Offset(100, 60, 30, 10)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestAnchorOffset(t *testing.T) {
	x, y := Anchor{Gravity: Center, X: 2, Y: -1}.Offset(10, 10, 4, 4)
	assert.Equal(t, 5, x)
	assert.Equal(t, 2, y)

	x, y = Anchor{X: 7, Y: 8}.Offset(10, 10, 4, 4)
	assert.Equal(t, 7, x)
	assert.Equal(t, 8, y)
}

func TestRect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: -5, Width: 10, Height: 10}
	assert.Equal(t, Rect{X: 5, Y: 0, Width: 5, Height: 5}, a.Intersect(b))
	assert.Equal(t, Rect{X: 0, Y: -5, Width: 15, Height: 15}, a.Union(b))
	assert.True(t, a.Intersect(Rect{X: 20, Width: 1, Height: 1}).Empty())
	assert.True(t, a.Contains(Rect{X: 2, Y: 2, Width: 8, Height: 8}))
	assert.False(t, a.Contains(b))
}

func TestCropResolve(t *testing.T) {
	tests := []struct {
		name string
		crop Crop
		want Rect
	}{
		{"corners", Crop{Left: Int(100), Top: Int(100), Right: Int(200), Bottom: Int(200)}, Rect{100, 100, 100, 100}},
		{"extent", Crop{Left: Int(100), Top: Int(100), Width: Int(100), Height: Int(100)}, Rect{100, 100, 100, 100}},
		{"left bottom", Crop{Left: Int(150), Bottom: Int(150)}, Rect{150, 0, 150, 150}},
		{"left height", Crop{Left: Int(150), Height: Int(150)}, Rect{150, 0, 150, 150}},
		{"negative", Crop{Left: Int(-200), Top: Int(-200), Right: Int(-100), Bottom: Int(-100)}, Rect{100, 100, 100, 100}},
		{"top bottom", Crop{Top: Int(100), Bottom: Int(200)}, Rect{0, 100, 300, 100}},
		{"nothing", Crop{}, Rect{0, 0, 300, 300}},
		{"gravity center", Crop{Width: Int(100), Height: Int(100), Gravity: Center}, Rect{100, 100, 100, 100}},
		{"gravity south east", Crop{Width: Int(100), Height: Int(50), Gravity: SouthEast}, Rect{200, 250, 100, 50}},
		{"gravity oversize", Crop{Width: Int(500), Height: Int(500), Gravity: Center}, Rect{0, 0, 300, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.crop.Resolve(300, 300)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCropResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		crop Crop
		want error
	}{
		{"right and width", Crop{Right: Int(1), Width: Int(2)}, errs.ErrArgumentKind},
		{"bottom and height", Crop{Bottom: Int(1), Height: Int(2)}, errs.ErrArgumentKind},
		{"gravity without size", Crop{Gravity: Center}, errs.ErrArgumentKind},
		{"gravity with left", Crop{Left: Int(1), Width: Int(1), Height: Int(1), Gravity: Center}, errs.ErrArgumentKind},
		{"too large", Crop{Left: Int(0), Top: Int(0), Right: Int(500), Bottom: Int(500)}, errs.ErrArgumentValue},
		{"inverted", Crop{Left: Int(290), Top: Int(290), Right: Int(50), Bottom: Int(50)}, errs.ErrArgumentValue},
		{"zero size", Crop{Left: Int(290), Top: Int(290), Width: Int(0), Height: Int(0)}, errs.ErrArgumentValue},
		{"past edge", Crop{Left: Int(250), Width: Int(100)}, errs.ErrArgumentValue},
		{"gravity zero", Crop{Width: Int(0), Height: Int(5), Gravity: North}, errs.ErrArgumentValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.crop.Resolve(300, 300)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSizeResolve(t *testing.T) {
	w, h, err := Size{Height: Int(100)}.Resolve(402, 599)
	require.NoError(t, err)
	assert.Equal(t, 402, w)
	assert.Equal(t, 100, h)

	w, h, err = Size{Width: Int(100), Height: Int(100)}.Resolve(402, 599)
	require.NoError(t, err)
	assert.Equal(t, [2]int{100, 100}, [2]int{w, h})

	for _, s := range []Size{{Width: Int(0)}, {Height: Int(0)}, {Width: Int(-5)}, {Height: Int(-5)}} {
		_, _, err := s.Resolve(10, 10)
		assert.ErrorIs(t, err, errs.ErrArgumentValue)
	}
}

func TestGeometryScale(t *testing.T) {
	tests := []struct {
		geom string
		w, h int
	}{
		{"200%", 1600, 1200},
		{"200%x100%", 1600, 600},
		{"1200", 1200, 900},
		{"x300", 400, 300},
		{"400x600", 400, 300},
		{"1000x1200^", 1600, 1200},
		{"100x100!", 100, 100},
		{"400x500>", 400, 300},
		{"1200x3000<", 1200, 900},
		{"120000@", 400, 300},
		{"2000x2000>", 800, 600},
		{"100x100<", 800, 600},
		{"50%", 400, 300},
	}
	for _, tt := range tests {
		t.Run(tt.geom, func(t *testing.T) {
			g, err := Parse(tt.geom)
			require.NoError(t, err)
			w, h := g.Scale(800, 600)
			assert.Equal(t, tt.w, w, "width")
			assert.Equal(t, tt.h, h, "height")
		})
	}
}

func TestGeometryCropRect(t *testing.T) {
	tests := []struct {
		geom string
		want Rect
	}{
		{"300x300", Rect{0, 0, 300, 300}},
		{"300x300+100+100", Rect{100, 100, 300, 300}},
		{"300x300-150-150", Rect{0, 0, 150, 150}},
		{"50%", Rect{0, 0, 400, 300}},
		{"1000x1000+700+500", Rect{700, 500, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.geom, func(t *testing.T) {
			g, err := Parse(tt.geom)
			require.NoError(t, err)
			r, err := g.CropRect(800, 600)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}

	g, err := Parse("10x10+900+900")
	require.NoError(t, err)
	_, err = g.CropRect(800, 600)
	assert.ErrorIs(t, err, errs.ErrArgumentValue)
}

func TestParse(t *testing.T) {
	g, err := Parse("640x480+10-20!")
	require.NoError(t, err)
	assert.Equal(t, Geometry{
		Width: 640, Height: 480, HasWidth: true, HasHeight: true,
		X: 10, Y: -20, HasOffset: true, Exact: true,
	}, g)

	for _, bad := range []string{"", "abc", "⚠", "+1+1", "10x10x10", "@"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, errs.ErrArgumentValue, bad)
	}
}
