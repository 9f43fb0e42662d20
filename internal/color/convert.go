// Package color implements the color-space math used by pixel operators.
// All components are float64 values nominally in [0,1].
package color

import "math"

// Rec. 709 luma coefficients.
const (
	LumaR = 0.212656
	LumaG = 0.715158
	LumaB = 0.072186
)

// Luma returns the Rec. 709 weighted intensity of an RGB triple.
func Luma(r, g, b float64) float64 {
	return LumaR*r + LumaG*g + LumaB*b
}

// SRGBToLinear converts an sRGB component to linear (EOTF - Electro-Optical Transfer Function).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear component to sRGB (OETF - Opto-Electronic Transfer Function).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// RGBToHSL converts RGB to hue, saturation, lightness. Hue is in [0,1).
func RGBToHSL(r, g, b float64) (h, s, l float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	l = (hi + lo) / 2
	c := hi - lo
	if c == 0 {
		return 0, 0, l
	}
	if l <= 0.5 {
		s = c / (hi + lo)
	} else {
		s = c / (2 - hi - lo)
	}
	return hue(r, g, b, hi, c), s, l
}

// HSLToRGB is the inverse of RGBToHSL.
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

// RGBToHSB converts RGB to hue, saturation, brightness (HSV).
func RGBToHSB(r, g, b float64) (h, s, v float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	c := hi - lo
	if hi == 0 {
		return 0, 0, 0
	}
	if c == 0 {
		return 0, 0, hi
	}
	return hue(r, g, b, hi, c), c / hi, hi
}

// HSBToRGB is the inverse of RGBToHSB.
func HSBToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}
	h = WrapHue(h) * 6
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// RGBToCMYK converts RGB to process CMYK with full black generation.
func RGBToCMYK(r, g, b float64) (c, m, y, k float64) {
	k = 1 - max(r, g, b)
	if k >= 1 {
		return 0, 0, 0, 1
	}
	d := 1 - k
	return (1 - r - k) / d, (1 - g - k) / d, (1 - b - k) / d, k
}

// CMYKToRGB is the inverse of RGBToCMYK.
func CMYKToRGB(c, m, y, k float64) (r, g, b float64) {
	return (1 - c) * (1 - k), (1 - m) * (1 - k), (1 - y) * (1 - k)
}

// WrapHue maps h into [0,1).
func WrapHue(h float64) float64 {
	h -= math.Floor(h)
	if h >= 1 {
		h = 0
	}
	return h
}

func hue(r, g, b, hi, c float64) float64 {
	var h float64
	switch hi {
	case r:
		h = (g - b) / c
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/c + 2
	default:
		h = (r-g)/c + 4
	}
	return h / 6
}

func hueToRGB(p, q, t float64) float64 {
	t = WrapHue(t)
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}
