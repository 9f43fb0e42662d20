package pixel

import (
	"image"

	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/text"
)

// CaptionOptions places a caption.
type CaptionOptions struct {
	// Font is required.
	Font *text.Font

	// Left and Top position the text box. Width and Height of zero extend
	// it to the right and bottom edges of the image.
	Left, Top     int
	Width, Height int

	// Gravity aligns the text inside the box.
	Gravity geometry.Gravity
}

// Caption draws s into a box of the image with the configured
// Typesetter, wrapping lines to the box width. A zero font size picks the
// largest size that fits the box.
func (im *Image) Caption(s string, o CaptionOptions) error {
	const op = "caption"
	if o.Font == nil {
		return errs.Kind(op, "a font is required")
	}
	ts := im.cfg.Typesetter
	if ts == nil {
		return errs.Unavailable(op, "no typesetter configured")
	}
	w, h := im.Size()
	bw, bh := o.Width, o.Height
	if bw == 0 {
		bw = w - o.Left
	}
	if bh == 0 {
		bh = h - o.Top
	}
	if o.Left < 0 || o.Top < 0 || bw <= 0 || bh <= 0 {
		return errs.Value(op, "text box %dx%d+%d+%d is empty or negative", bw, bh, o.Left, o.Top)
	}
	box := image.Rect(o.Left, o.Top, o.Left+bw, o.Top+bh).Intersect(image.Rect(0, 0, w, h))
	if box.Empty() {
		return errs.Range(op, "text box %dx%d+%d+%d misses the %dx%d image", bw, bh, o.Left, o.Top, w, h)
	}

	canvas := rgbaToNRGBA64(im.rgba())
	if err := ts.Render(canvas, box, s, o.Font, o.Gravity); err != nil {
		return errs.Failed(op, err)
	}
	im.fromRGBA(nrgba64ToRGBA(canvas))
	return nil
}
