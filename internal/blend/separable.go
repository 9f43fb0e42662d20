package blend

import "math"

// separable composites with a per-channel blend function B(Cs, Cd):
// Co = As*(1-Ad)*Cs + Ad*(1-As)*Cd + As*Ad*B(Cs, Cd).
func separable(op Op, src, dst []float64) {
	as, ad := src[3], dst[3]
	var co [3]float64
	for c := 0; c < 3; c++ {
		cs, cd := src[c], dst[c]
		co[c] = as*(1-ad)*cs + ad*(1-as)*cd + as*ad*blendChannel(op, cs, cd)
	}
	unpremultiply(dst, co[0], co[1], co[2], as+ad-as*ad)
}

func blendChannel(op Op, s, d float64) float64 {
	switch op {
	case OpMultiply:
		return s * d
	case OpScreen:
		return s + d - s*d
	case OpOverlay:
		return hardLight(d, s)
	case OpDarken:
		return math.Min(s, d)
	case OpLighten:
		return math.Max(s, d)
	case OpColorDodge:
		switch {
		case d == 0:
			return 0
		case s >= 1:
			return 1
		default:
			return math.Min(1, d/(1-s))
		}
	case OpColorBurn:
		switch {
		case d >= 1:
			return 1
		case s <= 0:
			return 0
		default:
			return 1 - math.Min(1, (1-d)/s)
		}
	case OpHardLight:
		return hardLight(s, d)
	case OpSoftLight:
		return softLight(s, d)
	case OpDifference:
		return math.Abs(s - d)
	case OpExclusion:
		return s + d - 2*s*d
	}
	return s
}

func hardLight(s, d float64) float64 {
	if s <= 0.5 {
		return d * 2 * s
	}
	t := 2*s - 1
	return d + t - d*t
}

func softLight(s, d float64) float64 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var g float64
	if d <= 0.25 {
		g = ((16*d-12)*d + 4) * d
	} else {
		g = math.Sqrt(d)
	}
	return d + (2*s-1)*(g-d)
}
