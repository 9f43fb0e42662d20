package pixel

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	pcolor "github.com/gogpu/pixel/internal/color"
	"github.com/gogpu/pixel/internal/errs"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
// It converts to and from every ColorModel.
type Color struct {
	R, G, B, A float64
}

// RGBA implements color.Color with premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A)*65535 + 0.5)
	r = uint32(clamp01(c.R)*clamp01(c.A)*65535 + 0.5)
	g = uint32(clamp01(c.G)*clamp01(c.A)*65535 + 0.5)
	b = uint32(clamp01(c.B)*clamp01(c.A)*65535 + 0.5)
	return r, g, b, a
}

// ColorOf converts a standard color.Color.
func ColorOf(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// GrayColor creates an opaque gray.
func GrayColor(v float64) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Cyan        = RGB(0, 1, 1)
	Magenta     = RGB(1, 0, 1)
	Transparent = Color{}
)

var namedColors = map[string]Color{
	"black":       Black,
	"white":       White,
	"red":         Red,
	"green":       RGB(0, 128.0/255, 0),
	"lime":        Green,
	"blue":        Blue,
	"yellow":      Yellow,
	"cyan":        Cyan,
	"aqua":        Cyan,
	"magenta":     Magenta,
	"fuchsia":     Magenta,
	"gray":        GrayColor(190.0 / 255),
	"grey":        GrayColor(190.0 / 255),
	"orange":      RGB(1, 165.0/255, 0),
	"purple":      RGB(128.0/255, 0, 128.0/255),
	"navy":        RGB(0, 0, 128.0/255),
	"none":        Transparent,
	"transparent": Transparent,
}

// ParseColor reads "#rgb", "#rgba", "#rrggbb", "#rrggbbaa",
// "#rrrrggggbbbb", "rgb(r,g,b)", "rgba(r,g,b,a)", "gray(v)", "cmyk(c,m,y,k)"
// or one of a few basic names. Function components are 0-255 or
// percentages; alpha is a fraction.
func ParseColor(s string) (Color, error) {
	const op = "color"
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		return parseHexColor(op, s, name[1:])
	}
	open := strings.IndexByte(name, '(')
	if open < 0 || !strings.HasSuffix(name, ")") {
		return Color{}, errs.Value(op, "unrecognized color %q", s)
	}
	fn := name[:open]
	parts := strings.Split(name[open+1:len(name)-1], ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		scale := 255.0
		if (fn == "rgba" && i == 3) || (fn == "cmyk" || fn == "cmyka") {
			scale = 1
		}
		if strings.HasSuffix(p, "%") {
			p, scale = strings.TrimSuffix(p, "%"), 100
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Color{}, errs.Value(op, "bad component %q in %q", parts[i], s)
		}
		vals[i] = clamp01(v / scale)
	}
	want := map[string]int{"rgb": 3, "rgba": 4, "gray": 1, "graya": 2, "cmyk": 4, "cmyka": 5}
	n, ok := want[fn]
	if !ok {
		return Color{}, errs.Value(op, "unknown color function %q", fn)
	}
	if len(vals) != n {
		return Color{}, errs.Value(op, "%s takes %d components, got %d", fn, n, len(vals))
	}
	switch fn {
	case "rgb":
		return RGB(vals[0], vals[1], vals[2]), nil
	case "rgba":
		return Color{vals[0], vals[1], vals[2], vals[3]}, nil
	case "gray":
		return GrayColor(vals[0]), nil
	case "graya":
		return Color{vals[0], vals[0], vals[0], vals[1]}, nil
	default:
		r, g, b := pcolor.CMYKToRGB(vals[0], vals[1], vals[2], vals[3])
		a := 1.0
		if n == 5 {
			a = vals[4]
		}
		return Color{r, g, b, a}, nil
	}
}

func parseHexColor(op, orig, hex string) (Color, error) {
	var digits int
	switch len(hex) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	case 12, 16:
		digits = 4
	default:
		return Color{}, errs.Value(op, "bad hex color %q", orig)
	}
	maxv := math.Pow(16, float64(digits)) - 1
	var v [4]float64
	v[3] = 1
	for i := 0; i*digits < len(hex); i++ {
		n, err := strconv.ParseUint(hex[i*digits:(i+1)*digits], 16, 64)
		if err != nil {
			return Color{}, errs.Value(op, "bad hex color %q", orig)
		}
		v[i] = float64(n) / maxv
	}
	return Color{v[0], v[1], v[2], v[3]}, nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats the color as #rrggbbaa.
func (c Color) String() string {
	q := func(v float64) uint8 { return uint8(clamp01(v)*255 + 0.5) }
	return fmt.Sprintf("#%02x%02x%02x%02x", q(c.R), q(c.G), q(c.B), q(c.A))
}

// UnmarshalYAML reads a color string.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return errs.Kind("color", "line %d: %v", n.Line, err)
	}
	v, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalYAML writes the color as a hex string.
func (c Color) MarshalYAML() (any, error) { return c.String(), nil }

// Lerp performs linear interpolation between two colors.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Distance returns the RGBA Euclidean distance normalized to [0, 1].
func (c Color) Distance(o Color) float64 {
	dr, dg, db, da := c.R-o.R, c.G-o.G, c.B-o.B, c.A-o.A
	return math.Sqrt((dr*dr + dg*dg + db*db + da*da) / 4)
}

func (c Color) rgba() [4]float64 { return [4]float64{c.R, c.G, c.B, c.A} }

// samples converts c into the model's storage order.
func (m ColorModel) samples(c Color) []float64 {
	px := make([]float64, m.Len())
	rgba := c.rgba()
	m.fromRGBA(rgba[:], px)
	return px
}

// toRGBA converts one stored pixel into straight RGBA.
func (m ColorModel) toRGBA(px, dst []float64) {
	switch m {
	case ModelRGB:
		dst[0], dst[1], dst[2], dst[3] = px[0], px[1], px[2], 1
	case ModelRGBA:
		copy(dst[:4], px[:4])
	case ModelGray:
		dst[0], dst[1], dst[2], dst[3] = px[0], px[0], px[0], 1
	case ModelGrayAlpha:
		dst[0], dst[1], dst[2], dst[3] = px[0], px[0], px[0], px[1]
	case ModelCMYK, ModelCMYKA:
		dst[0], dst[1], dst[2] = pcolor.CMYKToRGB(px[0], px[1], px[2], px[3])
		dst[3] = 1
		if m == ModelCMYKA {
			dst[3] = px[4]
		}
	}
}

// fromRGBA converts straight RGBA into one stored pixel.
func (m ColorModel) fromRGBA(src, px []float64) {
	switch m {
	case ModelRGB:
		copy(px[:3], src[:3])
	case ModelRGBA:
		copy(px[:4], src[:4])
	case ModelGray:
		px[0] = pcolor.Luma(src[0], src[1], src[2])
	case ModelGrayAlpha:
		px[0], px[1] = pcolor.Luma(src[0], src[1], src[2]), src[3]
	case ModelCMYK, ModelCMYKA:
		px[0], px[1], px[2], px[3] = pcolor.RGBToCMYK(src[0], src[1], src[2])
		if m == ModelCMYKA {
			px[4] = src[3]
		}
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Pixel is one pixel read from an image: its samples normalized to [0, 1]
// in the storage order of Model.
type Pixel struct {
	Model  ColorModel
	Values []float64
}

// Get returns the sample of channel c.
func (p Pixel) Get(c Channel) (float64, bool) {
	i := p.Model.Index(c)
	if i < 0 {
		return 0, false
	}
	return p.Values[i], true
}

// Color converts the pixel to RGBA.
func (p Pixel) Color() Color {
	var rgba [4]float64
	p.Model.toRGBA(p.Values, rgba[:])
	return Color{rgba[0], rgba[1], rgba[2], rgba[3]}
}
