package geometry

import "github.com/gogpu/pixel/internal/errs"

const opCrop = "crop"

// Crop is the full parameter set of a crop. Nil fields are unset.
//
// Left and Top default to 0; Right and Bottom are exclusive edges and
// default to the image size, or to Left+Width / Top+Height when an extent
// is given. Negative values count from the far edge. Setting both Right
// and Width (or Bottom and Height) is contradictory.
//
// With a Gravity, Width and Height are required and the window is placed
// by the anchor instead of Left and Top; a window larger than the image
// is intersected with it.
type Crop struct {
	Left, Top, Right, Bottom *int
	Width, Height            *int
	Gravity                  Gravity
}

// Resolve computes the crop rectangle for a w x h image. Kind errors
// report contradictory or missing parameters; value errors report a
// rectangle outside the image or without area.
func (c Crop) Resolve(w, h int) (Rect, error) {
	if c.Right != nil && c.Width != nil {
		return Rect{}, errs.Kind(opCrop, "right and width are mutually exclusive")
	}
	if c.Bottom != nil && c.Height != nil {
		return Rect{}, errs.Kind(opCrop, "bottom and height are mutually exclusive")
	}
	if c.Gravity != GravityUndefined {
		return c.resolveGravity(w, h)
	}

	left := fromEdge(c.Left, w, 0)
	top := fromEdge(c.Top, h, 0)
	right, bottom := w, h
	switch {
	case c.Right != nil:
		right = fromEdge(c.Right, w, w)
	case c.Width != nil:
		right = left + *c.Width
	}
	switch {
	case c.Bottom != nil:
		bottom = fromEdge(c.Bottom, h, h)
	case c.Height != nil:
		bottom = top + *c.Height
	}

	r := Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
	if r.Empty() {
		return Rect{}, errs.Value(opCrop, "empty rectangle %dx%d%+d%+d", r.Width, r.Height, r.X, r.Y)
	}
	if !(Rect{Width: w, Height: h}).Contains(r) {
		return Rect{}, errs.Value(opCrop, "rectangle %dx%d%+d%+d exceeds %dx%d", r.Width, r.Height, r.X, r.Y, w, h)
	}
	return r, nil
}

func (c Crop) resolveGravity(w, h int) (Rect, error) {
	if c.Width == nil || c.Height == nil {
		return Rect{}, errs.Kind(opCrop, "gravity requires width and height")
	}
	if c.Left != nil || c.Top != nil || c.Right != nil || c.Bottom != nil {
		return Rect{}, errs.Kind(opCrop, "gravity excludes left, top, right and bottom")
	}
	cw, ch := *c.Width, *c.Height
	if cw <= 0 || ch <= 0 {
		return Rect{}, errs.Value(opCrop, "size %dx%d must be positive", cw, ch)
	}
	x, y := c.Gravity.Offset(w, h, cw, ch)
	r := Rect{X: x, Y: y, Width: cw, Height: ch}.Intersect(Rect{Width: w, Height: h})
	if r.Empty() {
		return Rect{}, errs.Value(opCrop, "window misses the image")
	}
	return r, nil
}

// fromEdge resolves an optional coordinate: nil gives def, negative values
// count back from size.
func fromEdge(v *int, size, def int) int {
	if v == nil {
		return def
	}
	if *v < 0 {
		return size + *v
	}
	return *v
}

// Size is an optional width and height; nil keeps the current dimension.
type Size struct {
	Width, Height *int
}

// Resolve returns the target size for a w x h image. Given dimensions must
// be positive.
func (s Size) Resolve(w, h int) (int, int, error) {
	if s.Width != nil {
		if *s.Width <= 0 {
			return 0, 0, errs.Value("size", "width %d must be positive", *s.Width)
		}
		w = *s.Width
	}
	if s.Height != nil {
		if *s.Height <= 0 {
			return 0, 0, errs.Value("size", "height %d must be positive", *s.Height)
		}
		h = *s.Height
	}
	return w, h, nil
}
