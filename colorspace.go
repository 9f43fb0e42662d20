package pixel

import (
	pcolor "github.com/gogpu/pixel/internal/color"
	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// ColorSpace tags how the stored samples are to be interpreted.
type ColorSpace uint8

// Color spaces. HSL and HSB store hue, saturation and lightness or
// brightness in the red, green and blue slots of an RGB model.
const (
	SRGB ColorSpace = iota
	LinearRGB
	GraySpace
	CMYKSpace
	HSLSpace
	HSBSpace

	colorSpaceCount
)

var colorSpaceNames = []string{"srgb", "linear_rgb", "gray", "cmyk", "hsl", "hsb"}

// String returns the color space name.
func (cs ColorSpace) String() string { return enumName(colorSpaceNames, int(cs)) }

// ParseColorSpace reads a color space name.
func ParseColorSpace(name string) (ColorSpace, error) {
	return parseEnum("colorspace", "color space", name, colorSpaceNames, map[string]ColorSpace{
		"rgb": LinearRGB, "linear": LinearRGB, "grey": GraySpace, "hsv": HSBSpace,
	})
}

// TransformColorspace converts the samples into cs. Gray and CMYK change
// the color model (keeping alpha); the RGB family keeps an RGB model.
func (im *Image) TransformColorspace(cs ColorSpace) error {
	if cs >= colorSpaceCount {
		return errs.Value("colorspace", "unknown color space %d", cs)
	}
	if cs == im.meta.colorSpace {
		return nil
	}
	alpha := im.model.HasAlpha()
	im.toSRGB()
	switch cs {
	case GraySpace:
		im.setModel(ModelGray.WithAlpha(alpha))
	case CMYKSpace:
		im.setModel(ModelCMYK.WithAlpha(alpha))
	case LinearRGB, HSLSpace, HSBSpace:
		im.mapRGB(func(r, g, b float64) (float64, float64, float64) {
			switch cs {
			case LinearRGB:
				return pcolor.SRGBToLinear(r), pcolor.SRGBToLinear(g), pcolor.SRGBToLinear(b)
			case HSLSpace:
				return pcolor.RGBToHSL(r, g, b)
			default:
				return pcolor.RGBToHSB(r, g, b)
			}
		})
	}
	Logger().Debug("pixel: colorspace", "from", im.meta.colorSpace.String(), "to", cs.String())
	im.meta.colorSpace = cs
	return nil
}

// toSRGB brings the samples back to an sRGB tagged RGB model.
func (im *Image) toSRGB() {
	switch im.meta.colorSpace {
	case LinearRGB:
		im.mapRGB(func(r, g, b float64) (float64, float64, float64) {
			return pcolor.LinearToSRGB(r), pcolor.LinearToSRGB(g), pcolor.LinearToSRGB(b)
		})
	case HSLSpace:
		im.mapRGB(pcolor.HSLToRGB)
	case HSBSpace:
		im.mapRGB(pcolor.HSBToRGB)
	}
	if !im.model.IsGray() && !im.model.IsCMYK() {
		im.meta.colorSpace = SRGB
		return
	}
	im.setModel(ModelRGB.WithAlpha(im.model.HasAlpha()))
	im.meta.colorSpace = SRGB
}

// mapRGB applies fn to the red, green and blue slots of an RGB model.
func (im *Image) mapRGB(fn func(r, g, b float64) (float64, float64, float64)) {
	f := im.floats()
	mapPixels(im.workers(), f, func(px []float64) {
		px[0], px[1], px[2] = fn(px[0], px[1], px[2])
	})
	im.commit(f)
}

// mapPixels applies fn to every pixel of a decoded plane in row bands.
func mapPixels(workers int, f *pimage.Floats, fn func(px []float64)) {
	parallel.Rows(workers, f.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := f.Row(y)
			for i := 0; i < len(row); i += f.C {
				fn(row[i : i+f.C])
			}
		}
	})
}
