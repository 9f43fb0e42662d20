package pixel

import (
	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
)

// cropTo cuts r out of the image and moves the page offset along with it.
func (im *Image) cropTo(r geometry.Rect) {
	im.store(im.floats().Crop(r.X, r.Y, r.Width, r.Height))
	im.meta.page.X += r.X
	im.meta.page.Y += r.Y
}

// Crop keeps the rectangle c resolves to. See geometry.Crop for the
// accepted parameter combinations. The page offset moves by the crop
// origin so the pixels keep their place on the canvas.
func (im *Image) Crop(c geometry.Crop) error {
	r, err := c.Resolve(im.Width(), im.Height())
	if err != nil {
		return err
	}
	if r == (geometry.Rect{Width: im.Width(), Height: im.Height()}) {
		return nil
	}
	im.cropTo(r)
	return nil
}

// Extent sets the canvas size, placing the current content by anchor and
// filling new area with the background. A nil dimension keeps the
// current one.
func (im *Image) Extent(size geometry.Size, anchor geometry.Anchor) error {
	w, h, err := size.Resolve(im.Width(), im.Height())
	if err != nil {
		return err
	}
	return im.ResizeCanvas(w, h, anchor)
}

// surround pads the image by dx columns and dy rows on every side with c.
func (im *Image) surround(c Color, dx, dy int) {
	w, h := im.Size()
	out := pimage.NewFloats(w+2*dx, h+2*dy, im.model.Len())
	out.Fill(im.model.samples(c))
	out.Paste(im.floats(), dx, dy)
	im.replace(out)
}

// Border surrounds the image with a border of color c, width columns on
// the left and right and height rows on the top and bottom.
func (im *Image) Border(c Color, width, height int) error {
	if width < 0 || height < 0 {
		return errs.Value("border", "border %dx%d must not be negative", width, height)
	}
	if width == 0 && height == 0 {
		return nil
	}
	im.surround(c, width, height)
	return nil
}

// Frame surrounds the image with a width x height frame of the matte
// color. The outer bevel lightens the top and left of the frame's outside
// edge and darkens the bottom and right; the inner bevel does the
// opposite around the picture.
func (im *Image) Frame(matte Color, width, height, inner, outer int) error {
	const op = "frame"
	if width < 0 || height < 0 || inner < 0 || outer < 0 {
		return errs.Value(op, "frame %dx%d with bevels %d,%d must not be negative", width, height, inner, outer)
	}
	if inner+outer > min(width, height) {
		return errs.Value(op, "bevels %d+%d do not fit a %dx%d frame", inner, outer, width, height)
	}
	if width == 0 && height == 0 {
		return nil
	}
	w, h := im.Size()
	im.surround(matte, width, height)
	if inner == 0 && outer == 0 {
		return nil
	}

	light := im.model.samples(matte.Lerp(White, 0.25))
	dark := im.model.samples(matte.Lerp(Black, 0.4))
	f := im.floats()
	// bevel shades a ring of thickness t whose outer edge is the
	// rectangle at (x0, y0) of size rw x rh.
	bevel := func(x0, y0, rw, rh, t int, topLeft, bottomRight []float64) {
		for y := y0; y < y0+rh; y++ {
			for x := x0; x < x0+rw; x++ {
				dl, dt := x-x0, y-y0
				dr, db := x0+rw-1-x, y0+rh-1-y
				d := min(dl, dt, dr, db)
				if d >= t {
					continue
				}
				px := topLeft
				// The diagonal through the corners splits the two shades.
				if d == dr && dr < dl || d == db && db < dt || d == dr && d == db {
					px = bottomRight
				}
				copy(f.Pixel(x, y), px)
			}
		}
	}
	bevel(0, 0, f.W, f.H, outer, light, dark)
	bevel(width-inner, height-inner, w+2*inner, h+2*inner, inner, dark, light)
	// Restore the picture, which the inner ring must not cover.
	f.Paste(im.floats().Crop(width, height, w, h), width, height)
	im.commit(f)
	return nil
}

// Shave removes columns from the left and right and rows from the top and
// bottom.
func (im *Image) Shave(columns, rows int) error {
	const op = "shave"
	if columns < 0 || rows < 0 {
		return errs.Value(op, "shave %dx%d must not be negative", columns, rows)
	}
	w, h := im.Size()
	if 2*columns >= w || 2*rows >= h {
		return errs.Value(op, "shaving %dx%d leaves nothing of %dx%d", columns, rows, w, h)
	}
	im.cropTo(geometry.Rect{X: columns, Y: rows, Width: w - 2*columns, Height: h - 2*rows})
	return nil
}

// Trim removes the border of pixels within fuzz of c. A nil color trims
// the color of the top-left pixel. An image made only of that color is
// left as is.
func (im *Image) Trim(c *Color, fuzz float64) error {
	const op = "trim"
	if err := errs.Number(op, "fuzz", fuzz); err != nil {
		return err
	}
	if fuzz < 0 || fuzz > 1 {
		return errs.Value(op, "fuzz must be in [0, 1], got %v", fuzz)
	}
	rgba := im.rgba()
	ref := Color{rgba.Pix[0], rgba.Pix[1], rgba.Pix[2], rgba.Pix[3]}
	if c != nil {
		ref = *c
	}
	x0, y0, x1, y1 := rgba.W, rgba.H, -1, -1
	for y := range rgba.H {
		for x := range rgba.W {
			p := rgba.Pixel(x, y)
			if (Color{p[0], p[1], p[2], p[3]}).Distance(ref) <= fuzz+1e-9 {
				continue
			}
			x0, y0 = min(x0, x), min(y0, y)
			x1, y1 = max(x1, x), max(y1, y)
		}
	}
	if x1 < 0 {
		return nil
	}
	r := geometry.Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
	if r.Width != rgba.W || r.Height != rgba.H {
		im.cropTo(r)
	}
	return nil
}

// Transform crops by a geometry string and then resizes by another, for
// example Transform("300x300+10+10", "50%"). Either string may be empty.
// Both are parsed before the image is touched.
func (im *Image) Transform(crop, resize string) error {
	var cg, rg geometry.Geometry
	var err error
	if crop != "" {
		if cg, err = geometry.Parse(crop); err != nil {
			return err
		}
	}
	if resize != "" {
		if rg, err = geometry.Parse(resize); err != nil {
			return err
		}
	}
	if crop != "" {
		r, err := cg.CropRect(im.Width(), im.Height())
		if err != nil {
			return err
		}
		im.cropTo(r)
	}
	if resize != "" {
		w, h := rg.Scale(im.Width(), im.Height())
		if w != im.Width() || h != im.Height() {
			im.resizeTo(w, h, FilterUndefined)
		}
	}
	return nil
}
