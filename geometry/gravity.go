// Package geometry resolves sizes, offsets and rectangles for the pixel
// operators: gravity anchors, crop parameter sets, and ImageMagick-style
// geometry strings such as "800x600^", "50%" or "300x300-150-150".
//
// All functions are pure; nothing here touches pixel data.
package geometry

import (
	"strings"

	"github.com/gogpu/pixel/internal/errs"
)

// Gravity names one of nine reference points of a rectangle.
type Gravity uint8

const (
	// GravityUndefined means no anchor: explicit offsets are used as given.
	GravityUndefined Gravity = iota
	NorthWest
	North
	NorthEast
	West
	Center
	East
	SouthWest
	South
	SouthEast
)

var gravityNames = [...]string{
	GravityUndefined: "undefined",
	NorthWest:        "north_west",
	North:            "north",
	NorthEast:        "north_east",
	West:             "west",
	Center:           "center",
	East:             "east",
	SouthWest:        "south_west",
	South:            "south",
	SouthEast:        "south_east",
}

// String returns the snake_case name.
func (g Gravity) String() string {
	if int(g) < len(gravityNames) {
		return gravityNames[g]
	}
	return "unknown"
}

// ParseGravity accepts "north_west", "northwest" or "NorthWest".
func ParseGravity(name string) (Gravity, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "")
	for g, n := range gravityNames {
		if strings.ReplaceAll(n, "_", "") == key {
			return Gravity(g), nil
		}
	}
	return GravityUndefined, errs.Value("gravity", "unknown gravity %q", name)
}

// Offset places an inner rectangle inside an outer one. The result may be
// negative when the inner rectangle is larger. Centered axes use
// outer/2 - inner/2 with integer division.
func (g Gravity) Offset(outerW, outerH, innerW, innerH int) (x, y int) {
	switch g {
	case North, Center, South:
		x = outerW/2 - innerW/2
	case NorthEast, East, SouthEast:
		x = outerW - innerW
	}
	switch g {
	case West, Center, East:
		y = outerH/2 - innerH/2
	case SouthWest, South, SouthEast:
		y = outerH - innerH
	}
	return x, y
}

// Anchor positions content on a canvas: by gravity when set, plus an
// explicit offset.
type Anchor struct {
	Gravity Gravity
	X, Y    int
}

// Offset returns the top-left corner of inner on outer.
func (a Anchor) Offset(outerW, outerH, innerW, innerH int) (x, y int) {
	x, y = a.Gravity.Offset(outerW, outerH, innerW, innerH)
	return x + a.X, y + a.Y
}

// Rect is an integer rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersect returns the overlap of r and o; the result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.Width, o.X+o.Width), max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// Int returns a pointer to v, for the optional fields of Crop and Size.
func Int(v int) *int { return &v }
