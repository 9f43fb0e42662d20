package blend

// Non-separable blend modes (Hue, Saturation, Color, Luminosity) per W3C
// Compositing and Blending Level 1, section 8.

// Lum returns the luminance of a color using BT.601 coefficients.
// Formula: Lum(r, g, b) = 0.30*r + 0.59*g + 0.11*b
func Lum(r, g, b float64) float64 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat returns the saturation (max - min) of a color.
func Sat(r, g, b float64) float64 {
	return max(r, g, b) - min(r, g, b)
}

// ClipColor pulls out-of-range components back towards the luminance.
func ClipColor(r, g, b float64) (float64, float64, float64) {
	l := Lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)

	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// SetLum shifts a color to luminance l, then clips.
func SetLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// SetSat rescales a color to saturation s keeping the component order.
func SetSat(r, g, b, s float64) (float64, float64, float64) {
	minPtr, midPtr, maxPtr := sortRGB(&r, &g, &b)
	if *maxPtr > *minPtr {
		*midPtr = (*midPtr - *minPtr) * s / (*maxPtr - *minPtr)
		*maxPtr = s
	} else {
		*midPtr, *maxPtr = 0, 0
	}
	*minPtr = 0
	return r, g, b
}

// sortRGB returns pointers to r, g, b sorted by value (minPtr, midPtr, maxPtr).
func sortRGB(r, g, b *float64) (minPtr, midPtr, maxPtr *float64) {
	switch {
	case *r <= *g && *g <= *b:
		return r, g, b
	case *r <= *b && *b <= *g:
		return r, b, g
	case *b <= *r && *r <= *g:
		return b, r, g
	case *g <= *r && *r <= *b:
		return g, r, b
	case *g <= *b && *b <= *r:
		return g, b, r
	default:
		return b, g, r
	}
}

func hslBlend(op Op, sr, sg, sb, dr, dg, db float64) (float64, float64, float64) {
	switch op {
	case OpHue:
		r, g, b := SetSat(sr, sg, sb, Sat(dr, dg, db))
		return SetLum(r, g, b, Lum(dr, dg, db))
	case OpSaturation:
		r, g, b := SetSat(dr, dg, db, Sat(sr, sg, sb))
		return SetLum(r, g, b, Lum(dr, dg, db))
	case OpColor:
		return SetLum(sr, sg, sb, Lum(dr, dg, db))
	default: // OpLuminosity
		return SetLum(dr, dg, db, Lum(sr, sg, sb))
	}
}

func nonSeparable(op Op, src, dst []float64) {
	as, ad := src[3], dst[3]
	br, bg, bb := hslBlend(op, src[0], src[1], src[2], dst[0], dst[1], dst[2])
	k := as * ad
	unpremultiply(dst,
		as*(1-ad)*src[0]+ad*(1-as)*dst[0]+k*br,
		as*(1-ad)*src[1]+ad*(1-as)*dst[1]+k*bg,
		as*(1-ad)*src[2]+ad*(1-as)*dst[2]+k*bb,
		as+ad-as*ad)
}
