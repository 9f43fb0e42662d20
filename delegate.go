package pixel

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/seam"
	"github.com/gogpu/pixel/text"
)

// LiquidRescaler performs content-aware resizing. Implementations return
// a new image of exactly w x h and must not modify src.
type LiquidRescaler interface {
	Rescale(src *Image, w, h int) (*Image, error)
}

// SeamCarver is the built-in LiquidRescaler. It removes or duplicates the
// lowest energy seams, measured by gradient magnitude.
type SeamCarver struct{}

// Rescale implements LiquidRescaler.
func (SeamCarver) Rescale(src *Image, w, h int) (*Image, error) {
	out := src.Clone()
	out.replace(seam.Carve(src.floats(), w, h))
	return out, nil
}

// Typesetter rasterizes text into a box of dst. text.Typesetter is the
// default implementation.
type Typesetter interface {
	Render(dst draw.Image, box image.Rectangle, s string, f *text.Font, g geometry.Gravity) error
}

// LiquidRescale resizes the image to w x h with the configured
// LiquidRescaler, keeping visually important content undistorted. It
// fails with ErrCapabilityUnavailable when no rescaler is configured.
func (im *Image) LiquidRescale(w, h int) error {
	const op = "liquid_rescale"
	if w <= 0 || h <= 0 {
		return errs.Value(op, "size %dx%d must be positive", w, h)
	}
	lr := im.cfg.LiquidRescaler
	if lr == nil {
		return errs.Unavailable(op, "no liquid rescaler configured")
	}
	Logger().Debug("pixel: liquid rescale", "delegate", lr, "to", [2]int{w, h})
	out, err := lr.Rescale(im, w, h)
	if err != nil {
		return errs.Failed(op, err)
	}
	if out.Width() != w || out.Height() != h {
		return errs.Failed(op, errs.Range(op, "delegate returned %dx%d", out.Width(), out.Height()))
	}
	if out.model != im.model {
		if err := out.SetModel(im.model); err != nil {
			return err
		}
	}
	im.store(out.floats())
	return nil
}
