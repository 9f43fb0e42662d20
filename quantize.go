package pixel

import (
	"math"
	"slices"

	"github.com/samber/lo"

	pcolor "github.com/gogpu/pixel/internal/color"
	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/filter"
	pimage "github.com/gogpu/pixel/internal/image"
)

// DitherMethod selects how quantization error is spread to neighbors.
type DitherMethod uint8

// Dither methods.
const (
	DitherNone DitherMethod = iota
	DitherRiemersma
	DitherFloydSteinberg
	ditherCount
)

var ditherNames = []string{"none", "riemersma", "floyd_steinberg"}

var ditherAliases = map[string]DitherMethod{
	"no":             DitherNone,
	"false":          DitherNone,
	"floyd":          DitherFloydSteinberg,
	"floydsteinberg": DitherFloydSteinberg,
}

// String returns the method name.
func (d DitherMethod) String() string { return enumName(ditherNames, int(d)) }

// ParseDitherMethod reads a dither method name.
func ParseDitherMethod(name string) (DitherMethod, error) {
	return parseEnum("dither", "dither method", name, ditherNames, ditherAliases)
}

// quantizer replaces px with its nearest representable value.
type quantizer func(px []float64)

// dither quantizes every pixel of f with q, spreading the error by method.
func dither(f *pimage.Floats, method DitherMethod, q quantizer) {
	switch method {
	case DitherFloydSteinberg:
		floydSteinberg(f, q)
	case DitherRiemersma:
		riemersma(f, q)
	default:
		for y := range f.H {
			for x := range f.W {
				q(f.Pixel(x, y))
			}
		}
	}
}

func floydSteinberg(f *pimage.Floats, q quantizer) {
	carry := make([]float64, f.C)
	spread := func(x, y int, w float64) {
		if x < 0 || x >= f.W || y >= f.H {
			return
		}
		px := f.Pixel(x, y)
		for i := range px {
			px[i] += carry[i] * w
		}
	}
	for y := range f.H {
		for x := range f.W {
			px := f.Pixel(x, y)
			old := slices.Clone(px)
			q(px)
			for i := range px {
				carry[i] = old[i] - px[i]
			}
			spread(x+1, y, 7.0/16)
			spread(x-1, y+1, 3.0/16)
			spread(x, y+1, 5.0/16)
			spread(x+1, y+1, 1.0/16)
		}
	}
}

// riemersmaQueue is the number of past errors carried along the curve.
const riemersmaQueue = 16

// riemersma walks f along a Hilbert curve, adding a weighted sum of the
// last riemersmaQueue errors to each pixel before quantizing it. The
// newest error weighs 16 times the oldest.
func riemersma(f *pimage.Floats, q quantizer) {
	var weights [riemersmaQueue]float64
	total := 0.0
	for i := range weights {
		weights[i] = math.Pow(riemersmaQueue, float64(i)/(riemersmaQueue-1)) / riemersmaQueue
		total += weights[i]
	}
	history := make([][]float64, riemersmaQueue)
	for i := range history {
		history[i] = make([]float64, f.C)
	}
	order := 1
	for order < max(f.W, f.H) {
		order <<= 1
	}
	for d := range order * order {
		x, y := hilbert(order, d)
		if x >= f.W || y >= f.H {
			continue
		}
		px := f.Pixel(x, y)
		for i := range px {
			for k, e := range history {
				px[i] += e[i] * weights[k] / total
			}
		}
		old := slices.Clone(px)
		q(px)
		e := history[0]
		copy(history, history[1:])
		history[riemersmaQueue-1] = e
		for i := range px {
			e[i] = old[i] - px[i]
		}
	}
}

// hilbert maps distance d along a Hilbert curve filling an n x n square
// (n a power of two) to a cell.
func hilbert(n, d int) (x, y int) {
	for s := 1; s < n; s *= 2 {
		rx := 1 & (d / 2)
		ry := 1 & (d ^ rx)
		if ry == 0 {
			if rx == 1 {
				x, y = s-1-x, s-1-y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		d /= 4
	}
	return x, y
}

// Posterize reduces each color channel to levels evenly spaced values.
func (im *Image) Posterize(levels int, method DitherMethod) error {
	const op = "posterize"
	if levels < 2 {
		return errs.Value(op, "levels must be at least 2, got %d", levels)
	}
	if method >= ditherCount {
		return errs.Value(op, "unknown dither method %d", method)
	}
	mask := im.model.defaultMask()
	n := float64(levels - 1)
	f := im.floats()
	dither(f, method, func(px []float64) {
		for i, v := range px {
			if mask.Has(i) {
				px[i] = math.Round(clamp01(v)*n) / n
			}
		}
	})
	im.commit(f)
	return nil
}

// colorBox is one median cut partition of the pixel set.
type colorBox struct {
	pixels [][]float64
}

// widest returns the channel with the largest spread and that spread.
func (b *colorBox) widest() (int, float64) {
	best, spread := 0, -1.0
	for c := range b.pixels[0] {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range b.pixels {
			lo, hi = math.Min(lo, p[c]), math.Max(hi, p[c])
		}
		if hi-lo > spread {
			best, spread = c, hi-lo
		}
	}
	return best, spread
}

func (b *colorBox) mean() []float64 {
	m := make([]float64, len(b.pixels[0]))
	for _, p := range b.pixels {
		for i, v := range p {
			m[i] += v
		}
	}
	for i := range m {
		m[i] /= float64(len(b.pixels))
	}
	return m
}

// medianCut partitions the distinct pixels of f into at most n boxes and
// returns each box's mean as the palette.
func medianCut(f *pimage.Floats, n int) [][]float64 {
	all := make([][]float64, f.W*f.H)
	for i := range all {
		all[i] = f.Pix[i*f.C : (i+1)*f.C]
	}
	boxes := []*colorBox{{pixels: all}}
	for len(boxes) < n {
		idx, ch, spread := -1, 0, 0.0
		for i, b := range boxes {
			if len(b.pixels) < 2 {
				continue
			}
			if c, s := b.widest(); s > spread {
				idx, ch, spread = i, c, s
			}
		}
		if idx < 0 {
			break
		}
		b := boxes[idx]
		slices.SortFunc(b.pixels, func(p, q []float64) int {
			switch {
			case p[ch] < q[ch]:
				return -1
			case p[ch] > q[ch]:
				return 1
			}
			return 0
		})
		mid := len(b.pixels) / 2
		boxes[idx] = &colorBox{pixels: b.pixels[:mid]}
		boxes = append(boxes, &colorBox{pixels: b.pixels[mid:]})
	}
	return lo.Map(boxes, func(b *colorBox, _ int) []float64 { return b.mean() })
}

func nearest(palette [][]float64, px []float64) []float64 {
	best, bestD := palette[0], math.Inf(1)
	for _, p := range palette {
		d := 0.0
		for i := range px {
			d += (p[i] - px[i]) * (p[i] - px[i])
		}
		if d < bestD {
			best, bestD = p, d
		}
	}
	return best
}

// Quantize reduces the image to at most colors distinct colors using a
// median cut palette. Alpha takes part in the partitioning.
func (im *Image) Quantize(colors int, method DitherMethod) error {
	const op = "quantize"
	if colors < 1 {
		return errs.Value(op, "colors must be positive, got %d", colors)
	}
	if method >= ditherCount {
		return errs.Value(op, "unknown dither method %d", method)
	}
	if im.CountColors() <= colors {
		return nil
	}
	f := im.floats()
	palette := medianCut(f.Clone(), colors)
	dither(f, method, func(px []float64) {
		for i := range px {
			px[i] = clamp01(px[i])
		}
		copy(px, nearest(palette, px))
	})
	im.commit(f)
	Logger().Debug("pixel: quantized", "colors", len(palette), "dither", method.String())
	return nil
}

// pixelKey is a pixel quantized to 16 bits per sample.
type pixelKey [5]uint16

func (im *Image) pixelKeys() []pixelKey {
	f := im.floats()
	keys := make([]pixelKey, f.W*f.H)
	for i := range keys {
		for c := range f.C {
			keys[i][c] = uint16(clamp01(f.Pix[i*f.C+c])*65535 + 0.5)
		}
	}
	return keys
}

// CountColors returns the number of distinct pixels at 16-bit precision.
func (im *Image) CountColors() int {
	return len(lo.Uniq(im.pixelKeys()))
}

// UniqueColors replaces the image with a one-row strip holding each
// distinct pixel once, in order of first appearance.
func (im *Image) UniqueColors() {
	keys := lo.Uniq(im.pixelKeys())
	c := im.model.Len()
	out := pimage.NewFloats(len(keys), 1, c)
	for i, k := range keys {
		for j := range c {
			out.Pix[i*c+j] = float64(k[j]) / 65535
		}
	}
	im.store(out)
}

// Modulate scales brightness and saturation and rotates hue, each given as
// a percentage where 100 means unchanged. Brightness and hue are applied
// in HSL; saturation blends toward Rec. 709 luminance, so 0 gives gray
// and values above 100 oversaturate. A hue of 0 or 200 rotates by 180
// degrees.
func (im *Image) Modulate(brightness, saturation, hue float64) error {
	const op = "modulate"
	if err := errs.Numbers(op, "brightness", brightness, "saturation", saturation, "hue", hue); err != nil {
		return err
	}
	if brightness < 0 || saturation < 0 {
		return errs.Value(op, "brightness %v and saturation %v must not be negative", brightness, saturation)
	}
	shift := (hue - 100) / 200
	scale := brightness / 100
	rgba := im.rgba()
	mapPixels(im.workers(), rgba, func(px []float64) {
		h, s, l := pcolor.RGBToHSL(px[0], px[1], px[2])
		px[0], px[1], px[2] = pcolor.HSLToRGB(pcolor.WrapHue(h+shift), s, clamp01(l*scale))
	})
	if saturation != 100 {
		filter.NewSaturationMatrix(saturation/100).Apply(rgba, rgbaSlots, im.workers())
	}
	im.fromRGBA(rgba)
	return nil
}

// rgbaSlots addresses a straight RGBA plane in color matrix order.
var rgbaSlots = [5]int{0, 1, 2, -1, 3}

// slots maps the color matrix slots onto the model's storage.
func (m ColorModel) slots() [5]int {
	if m.IsGray() {
		g := m.Index(GrayChannel)
		return [5]int{g, g, g, -1, m.alphaIndex()}
	}
	return [5]int{
		m.Index(RedChannel), m.Index(GreenChannel), m.Index(BlueChannel),
		m.Index(BlackChannel), m.alphaIndex(),
	}
}

// ColorMatrix transforms every pixel with an n x n row-major matrix, n
// from 1 to 6, addressing red, green, blue, black, alpha and an offset.
// Channels outside the matrix pass through.
func (im *Image) ColorMatrix(values []float64) error {
	const op = "color_matrix"
	for _, v := range values {
		if err := errs.Number(op, "value", v); err != nil {
			return err
		}
	}
	m, ok := filter.NewColorMatrix(values)
	if !ok {
		return errs.Value(op, "%d values do not form a square matrix of order 1 to 6", len(values))
	}
	if im.model.IsCMYK() {
		rgba := im.rgba()
		m.Apply(rgba, rgbaSlots, im.workers())
		im.fromRGBA(rgba)
		return nil
	}
	f := im.floats()
	slots := im.model.slots()
	if im.model.IsGray() {
		slots[1], slots[2] = -1, -1
	}
	m.Apply(f, slots, im.workers())
	im.commit(f)
	return nil
}

// Transparentize multiplies alpha by 1 - t, adding an alpha channel when
// the image has none.
func (im *Image) Transparentize(t float64) error {
	const op = "transparentize"
	if err := errs.Number(op, "transparency", t); err != nil {
		return err
	}
	if t < 0 || t > 1 {
		return errs.Value(op, "transparency must be in [0, 1], got %v", t)
	}
	im.SetAlpha(true)
	a := im.model.alphaIndex()
	mask := make(filter.Mask, im.model.Len())
	mask[a] = true
	im.mapSamples(mask, func(v float64, _ int) float64 { return v * (1 - t) })
	return nil
}

// TransparentColor sets the alpha of every pixel within fuzz of c to
// alpha. With invert, pixels that do not match are changed instead.
func (im *Image) TransparentColor(c Color, alpha, fuzz float64, invert bool) error {
	const op = "transparent_color"
	if err := errs.Numbers(op, "alpha", alpha, "fuzz", fuzz); err != nil {
		return err
	}
	if alpha < 0 || alpha > 1 || fuzz < 0 || fuzz > 1 {
		return errs.Value(op, "alpha %v and fuzz %v must be in [0, 1]", alpha, fuzz)
	}
	rgba := im.rgba()
	mapPixels(im.workers(), rgba, func(px []float64) {
		if matchesColor(px, c, fuzz) != invert {
			px[3] = alpha
		}
	})
	im.SetAlpha(true)
	im.fromRGBA(rgba)
	return nil
}

// matchesColor reports whether the RGB of an RGBA pixel lies within fuzz
// of c, with distances normalized to [0, 1].
func matchesColor(px []float64, c Color, fuzz float64) bool {
	dr, dg, db := px[0]-c.R, px[1]-c.G, px[2]-c.B
	return math.Sqrt((dr*dr+dg*dg+db*db)/3) <= fuzz+1e-9
}
