package pixel

import (
	"fmt"
	"math"

	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// store keeps f in place when its shape matches the image and swaps in new
// storage otherwise.
func (im *Image) store(f *pimage.Floats) {
	if f.W == im.Width() && f.H == im.Height() && f.C == im.buf.Channels() {
		im.commit(f)
		return
	}
	im.replace(f)
}

// remap builds a w x h plane whose pixel (x, y) is copied from the source
// pixel fn(x, y).
func (im *Image) remap(w, h int, fn func(x, y int) (int, int)) {
	src := im.floats()
	dst := pimage.NewFloats(w, h, src.C)
	parallel.Rows(im.workers(), h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range w {
				sx, sy := fn(x, y)
				copy(dst.Pixel(x, y), src.Pixel(sx, sy))
			}
		}
	})
	im.store(dst)
}

// Flip mirrors the image vertically.
func (im *Image) Flip() {
	w, h := im.Size()
	im.remap(w, h, func(x, y int) (int, int) { return x, h - 1 - y })
}

// Flop mirrors the image horizontally.
func (im *Image) Flop() {
	w, h := im.Size()
	im.remap(w, h, func(x, y int) (int, int) { return w - 1 - x, y })
}

// Transpose mirrors the image across its main diagonal.
func (im *Image) Transpose() {
	w, h := im.Size()
	im.remap(h, w, func(x, y int) (int, int) { return y, x })
}

// Transverse mirrors the image across its anti-diagonal.
func (im *Image) Transverse() {
	w, h := im.Size()
	im.remap(h, w, func(x, y int) (int, int) { return w - 1 - y, h - 1 - x })
}

// Rotate turns the image clockwise by degrees. Quarter turns are exact;
// other angles grow the canvas to hold the rotated image and fill the
// uncovered corners with bg. Multiples of 360 leave the image unchanged.
func (im *Image) Rotate(degrees float64, bg Color) error {
	const op = "rotate"
	if err := errs.Number(op, "degrees", degrees); err != nil {
		return err
	}
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}
	if math.Mod(deg, 90) == 0 {
		im.quarterTurns(int(deg / 90))
		return nil
	}
	w, h := im.Size()

	fwd := pimage.Rotate(deg)
	minX, minY, maxX, maxY := fwd.Bounds(float64(w), float64(h))
	ow := int(math.Ceil(maxX - minX - 1e-9))
	oh := int(math.Ceil(maxY - minY - 1e-9))
	// Center the rotated bounds in the integer canvas.
	fwd = pimage.Translate((float64(ow)-(maxX-minX))/2-minX, (float64(oh)-(maxY-minY))/2-minY).Multiply(fwd)
	inv, ok := fwd.Invert()
	if !ok {
		return errs.Failed(op, fmt.Errorf("singular rotation for %v degrees", degrees))
	}

	s := &pimage.Sampler{
		Src:        im.floats(),
		Interp:     pimage.InterpBilinear,
		Edge:       pimage.EdgeConstant,
		Background: im.model.samples(bg),
	}
	im.replace(resample(s, ow, oh, im.workers(), func(x, y float64) (float64, float64) {
		return inv.Apply(x, y)
	}))
	return nil
}

// quarterTurns rotates the image clockwise by n quarter turns exactly.
func (im *Image) quarterTurns(n int) {
	w, h := im.Size()
	switch n % 4 {
	case 1:
		im.remap(h, w, func(x, y int) (int, int) { return y, h - 1 - x })
	case 2:
		im.remap(w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
	case 3:
		im.remap(h, w, func(x, y int) (int, int) { return w - 1 - y, x })
	}
}

// resample fills a w x h plane by sampling s at the source position fn
// returns for each destination pixel center.
func resample(s *pimage.Sampler, w, h, workers int, fn func(x, y float64) (float64, float64)) *pimage.Floats {
	dst := pimage.NewFloats(w, h, s.Src.C)
	parallel.Rows(workers, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range w {
				sx, sy := fn(float64(x)+0.5, float64(y)+0.5)
				s.At(sx, sy, dst.Pixel(x, y))
			}
		}
	})
	return dst
}

// AutoOrient rotates and mirrors the samples so row 0 is the top and
// column 0 the left of the displayed picture, then resets the orientation
// tag to top_left.
func (im *Image) AutoOrient() {
	switch im.meta.orientation {
	case TopRight:
		im.Flop()
	case BottomRight:
		im.quarterTurns(2)
	case BottomLeft:
		im.Flip()
	case LeftTop:
		im.Transpose()
	case RightTop:
		im.quarterTurns(1)
	case RightBottom:
		im.Transverse()
	case LeftBottom:
		im.quarterTurns(3)
	}
	im.meta.orientation = TopLeft
}

// Interpolation selects how samples between pixel centers are
// reconstructed.
type Interpolation uint8

// Interpolation methods.
const (
	InterpolateBilinear Interpolation = iota
	InterpolateNearest
	InterpolateBicubic
	interpolationCount
)

var interpolationNames = []string{"bilinear", "nearest", "bicubic"}

var interpolationAliases = map[string]Interpolation{
	"undefined":       InterpolateBilinear,
	"average":         InterpolateBilinear,
	"mesh":            InterpolateBilinear,
	"integer":         InterpolateNearest,
	"nearestneighbor": InterpolateNearest,
	"catrom":          InterpolateBicubic,
	"spline":          InterpolateBicubic,
}

// String returns the method name.
func (i Interpolation) String() string { return enumName(interpolationNames, int(i)) }

// ParseInterpolation reads an interpolation method name.
func ParseInterpolation(name string) (Interpolation, error) {
	return parseEnum("interpolation", "interpolation method", name, interpolationNames, interpolationAliases)
}

func (i Interpolation) interp() pimage.Interp {
	switch i {
	case InterpolateNearest:
		return pimage.InterpNearest
	case InterpolateBicubic:
		return pimage.InterpBicubic
	}
	return pimage.InterpBilinear
}
