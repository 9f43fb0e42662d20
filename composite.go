package pixel

import (
	"math"

	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/blend"
	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/filter"
	pimage "github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// CompositeOperator decides how a source pixel combines with the
// destination pixel beneath it.
type CompositeOperator uint8

// Composite operators: Porter-Duff, separable and non-separable blend
// modes, and single channel copies.
const (
	CompositeOver       = CompositeOperator(blend.OpOver)
	CompositeClear      = CompositeOperator(blend.OpClear)
	CompositeCopy       = CompositeOperator(blend.OpSrc)
	CompositeDst        = CompositeOperator(blend.OpDst)
	CompositeDstOver    = CompositeOperator(blend.OpDstOver)
	CompositeIn         = CompositeOperator(blend.OpSrcIn)
	CompositeDstIn      = CompositeOperator(blend.OpDstIn)
	CompositeOut        = CompositeOperator(blend.OpSrcOut)
	CompositeDstOut     = CompositeOperator(blend.OpDstOut)
	CompositeAtop       = CompositeOperator(blend.OpSrcAtop)
	CompositeDstAtop    = CompositeOperator(blend.OpDstAtop)
	CompositeXor        = CompositeOperator(blend.OpXor)
	CompositePlus       = CompositeOperator(blend.OpPlus)
	CompositeMultiply   = CompositeOperator(blend.OpMultiply)
	CompositeScreen     = CompositeOperator(blend.OpScreen)
	CompositeOverlay    = CompositeOperator(blend.OpOverlay)
	CompositeDarken     = CompositeOperator(blend.OpDarken)
	CompositeLighten    = CompositeOperator(blend.OpLighten)
	CompositeColorDodge = CompositeOperator(blend.OpColorDodge)
	CompositeColorBurn  = CompositeOperator(blend.OpColorBurn)
	CompositeHardLight  = CompositeOperator(blend.OpHardLight)
	CompositeSoftLight  = CompositeOperator(blend.OpSoftLight)
	CompositeDifference = CompositeOperator(blend.OpDifference)
	CompositeExclusion  = CompositeOperator(blend.OpExclusion)
	CompositeHue        = CompositeOperator(blend.OpHue)
	CompositeSaturate   = CompositeOperator(blend.OpSaturation)
	CompositeColorize   = CompositeOperator(blend.OpColor)
	CompositeLuminize   = CompositeOperator(blend.OpLuminosity)
	CompositeCopyRed    = CompositeOperator(blend.OpCopyRed)
	CompositeCopyGreen  = CompositeOperator(blend.OpCopyGreen)
	CompositeCopyBlue   = CompositeOperator(blend.OpCopyBlue)
	CompositeCopyAlpha  = CompositeOperator(blend.OpCopyAlpha)
)

var compositeAliases = map[string]CompositeOperator{
	"srcover":     CompositeOver,
	"src":         CompositeCopy,
	"srcin":       CompositeIn,
	"srcout":      CompositeOut,
	"srcatop":     CompositeAtop,
	"add":         CompositePlus,
	"saturation":  CompositeSaturate,
	"color":       CompositeColorize,
	"luminosity":  CompositeLuminize,
	"copyopacity": CompositeCopyAlpha,
}

// String returns the operator name.
func (op CompositeOperator) String() string { return blend.Op(op).String() }

// ParseCompositeOperator reads an operator name such as "over",
// "multiply" or "copy_red".
func ParseCompositeOperator(name string) (CompositeOperator, error) {
	return parseEnum("composite", "operator", name, blend.Names(), compositeAliases)
}

// compositeRGBA blends src onto dst at (x, y) over the overlap, with
// src alpha scaled by opacity.
func compositeRGBA(dst, src *pimage.Floats, x, y int, op blend.Op, opacity float64, workers int) {
	r := geometry.Rect{X: x, Y: y, Width: src.W, Height: src.H}.
		Intersect(geometry.Rect{Width: dst.W, Height: dst.H})
	if r.Empty() {
		return
	}
	parallel.Rows(workers, r.Height, func(y0, y1 int) {
		var s [4]float64
		for j := y0; j < y1; j++ {
			dy := r.Y + j
			for dx := r.X; dx < r.X+r.Width; dx++ {
				copy(s[:], src.Pixel(dx-x, dy-y))
				s[3] *= opacity
				op.Apply(s[:], dst.Pixel(dx, dy))
			}
		}
	})
}

// Composite blends src onto the image with its top-left corner at (x, y).
// Only the overlapping area changes.
func (im *Image) Composite(src *Image, x, y int, op CompositeOperator) error {
	const name = "composite"
	if src == nil {
		return errs.Kind(name, "source image is nil")
	}
	if !blend.Op(op).IsValid() {
		return errs.Value(name, "unknown operator %d", op)
	}
	dst := im.rgba()
	compositeRGBA(dst, src.rgba(), x, y, blend.Op(op), 1, im.workers())
	im.fromRGBA(dst)
	return nil
}

// CompositeChannel is Composite restricted to the selected channels of
// the image; the other channels keep their values.
func (im *Image) CompositeChannel(ch Channels, src *Image, op CompositeOperator, x, y int) error {
	const name = "composite_channel"
	if src == nil {
		return errs.Kind(name, "source image is nil")
	}
	if !blend.Op(op).IsValid() {
		return errs.Value(name, "unknown operator %d", op)
	}
	mask, err := im.model.mask(name, ch)
	if err != nil {
		return err
	}
	before := im.floats()
	dst := im.rgba()
	compositeRGBA(dst, src.rgba(), x, y, blend.Op(op), 1, im.workers())
	after := im.model.convertRGBA(dst)
	for i := range after.Pix {
		if !mask.Has(i % after.C) {
			after.Pix[i] = before.Pix[i]
		}
	}
	im.commit(after)
	return nil
}

// Watermark blends mark over the image at (x, y) with its opacity
// reduced by transparency, which lies in [0, 1].
func (im *Image) Watermark(mark *Image, transparency float64, x, y int) error {
	const op = "watermark"
	if mark == nil {
		return errs.Kind(op, "watermark image is nil")
	}
	if err := errs.Number(op, "transparency", transparency); err != nil {
		return err
	}
	if transparency < 0 || transparency > 1 {
		return errs.Value(op, "transparency must be in [0, 1], got %v", transparency)
	}
	dst := im.rgba()
	compositeRGBA(dst, mark.rgba(), x, y, blend.OpOver, 1-transparency, im.workers())
	im.fromRGBA(dst)
	return nil
}

// clutTableSize is the resolution of the lookup tables built by Clut.
const clutTableSize = 4096

// Clut replaces each color sample by the matching channel of the lookup
// image, read along its diagonal from top-left (0) to bottom-right (1).
// A gradient or a one-row palette both work as lookup images.
func (im *Image) Clut(clut *Image) error {
	const op = "clut"
	if clut == nil {
		return errs.Kind(op, "lookup image is nil")
	}
	lut := clut.rgba()
	s := &pimage.Sampler{Src: lut, Interp: pimage.InterpBilinear, Edge: pimage.EdgeClamp}
	var tables [3][clutTableSize + 1]float64
	var px [4]float64
	for i := 0; i <= clutTableSize; i++ {
		t := float64(i) / clutTableSize
		s.At(t*float64(lut.W-1)+0.5, t*float64(lut.H-1)+0.5, px[:])
		for c := range tables {
			tables[c][i] = px[c]
		}
	}
	rgba := im.rgba()
	mapPixels(im.workers(), rgba, func(p []float64) {
		for c := range tables {
			p[c] = tables[c][int(clamp01(p[c])*clutTableSize+0.5)]
		}
	})
	im.fromRGBA(rgba)
	return nil
}

// haldLevel returns the level of a square Hald image of side level^3.
func haldLevel(w, h int) (int, bool) {
	level := int(math.Round(math.Cbrt(float64(w))))
	return level, w == h && level >= 2 && level*level*level == w
}

// NewHaldClut returns the identity Hald lookup image of the given level,
// level^3 pixels square, for editing and use with HaldClut.
func NewHaldClut(level int, opts ...Option) (*Image, error) {
	if level < 2 || level > 16 {
		return nil, errs.Value("hald_clut", "level must be in [2, 16], got %d", level)
	}
	side := level * level * level
	cube := level * level
	im, err := New(side, side, append([]Option{WithModel(ModelRGB)}, opts...)...)
	if err != nil {
		return nil, err
	}
	f := im.floats()
	n := float64(cube - 1)
	for i := range side * side {
		r, g, b := i%cube, i/cube%cube, i/(cube*cube)
		p := f.Pix[i*f.C:]
		p[0], p[1], p[2] = float64(r)/n, float64(g)/n, float64(b)/n
	}
	im.commit(f)
	return im, nil
}

// HaldClut maps every color through a Hald lookup image with trilinear
// interpolation. The identity image from NewHaldClut leaves colors
// unchanged.
func (im *Image) HaldClut(hald *Image) error {
	const op = "hald_clut"
	if hald == nil {
		return errs.Kind(op, "lookup image is nil")
	}
	level, ok := haldLevel(hald.Size())
	if !ok {
		return errs.Value(op, "%dx%d is not a Hald image", hald.Width(), hald.Height())
	}
	lut := hald.rgba()
	cube := level * level
	n := float64(cube - 1)
	at := func(r, g, b int) []float64 {
		i := r + g*cube + b*cube*cube
		return lut.Pix[i*4 : i*4+3]
	}
	rgba := im.rgba()
	mapPixels(im.workers(), rgba, func(p []float64) {
		var idx [3]int
		var frac [3]float64
		for c := range 3 {
			v := clamp01(p[c]) * n
			idx[c] = min(int(v), cube-2)
			frac[c] = v - float64(idx[c])
		}
		var out [3]float64
		for corner := range 8 {
			w := 1.0
			var k [3]int
			for c := range 3 {
				if corner>>c&1 == 1 {
					k[c] = idx[c] + 1
					w *= frac[c]
				} else {
					k[c] = idx[c]
					w *= 1 - frac[c]
				}
			}
			if w == 0 {
				continue
			}
			v := at(k[0], k[1], k[2])
			for c := range 3 {
				out[c] += w * v[c]
			}
		}
		copy(p[:3], out[:])
	})
	im.fromRGBA(rgba)
	return nil
}

// Shadow replaces the image with its drop shadow: black, shaped by the
// image's alpha, at alpha percent opacity and blurred by sigma. The
// canvas grows by 2*ceil(2*sigma) on each axis to hold the blur, and the
// page offset moves by (x, y) minus that border.
func (im *Image) Shadow(alpha, sigma float64, x, y int) error {
	const op = "shadow"
	if err := errs.Numbers(op, "alpha", alpha, "sigma", sigma); err != nil {
		return err
	}
	if alpha < 0 || alpha > 100 {
		return errs.Value(op, "alpha must be a percentage in [0, 100], got %v", alpha)
	}
	if sigma < 0 {
		return errs.Value(op, "sigma must not be negative, got %v", sigma)
	}
	border := int(math.Ceil(2 * sigma))
	src := im.rgba()
	a := pimage.NewFloats(src.W+2*border, src.H+2*border, 1)
	for j := range src.H {
		for i := range src.W {
			a.Pix[(j+border)*a.W+i+border] = src.Pix[(j*src.W+i)*4+3] * alpha / 100
		}
	}
	if sigma > 0 {
		a = filter.GaussianBlur(a, 0, sigma, nil, im.workers())
	}
	out := pimage.NewFloats(a.W, a.H, 4)
	for i, v := range a.Pix {
		out.Pix[i*4+3] = v
	}
	im.model = im.model.WithAlpha(true)
	im.replace(im.model.convertRGBA(out))
	im.meta.page.X += x - border
	im.meta.page.Y += y - border
	return nil
}
