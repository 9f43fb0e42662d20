// Package blend implements compositing operators on straight-alpha RGBA
// pixels with float64 components in [0,1].
//
// Porter-Duff operators follow the factor form Co = Fa*As*Cs + Fb*Ad*Cd.
// Blend modes follow W3C Compositing and Blending Level 1, composited with
// source-over.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import "strings"

// Op is a compositing operator.
type Op uint8

const (
	// Porter-Duff operators.
	OpOver    Op = iota // S + D*(1-Sa) [default]
	OpClear             // 0
	OpSrc               // S
	OpDst               // D
	OpDstOver           // S*(1-Da) + D
	OpSrcIn             // S*Da
	OpDstIn             // D*Sa
	OpSrcOut            // S*(1-Da)
	OpDstOut            // D*(1-Sa)
	OpSrcAtop           // S*Da + D*(1-Sa)
	OpDstAtop           // S*(1-Da) + D*Sa
	OpXor               // S*(1-Da) + D*(1-Sa)
	OpPlus              // S + D, clamped

	// Separable blend modes.
	OpMultiply
	OpScreen
	OpOverlay
	OpDarken
	OpLighten
	OpColorDodge
	OpColorBurn
	OpHardLight
	OpSoftLight
	OpDifference
	OpExclusion

	// Non-separable blend modes.
	OpHue
	OpSaturation
	OpColor
	OpLuminosity

	// Channel copies: replace one destination channel with the source's.
	OpCopyRed
	OpCopyGreen
	OpCopyBlue
	OpCopyAlpha

	opCount
)

var opNames = [opCount]string{
	OpOver:       "over",
	OpClear:      "clear",
	OpSrc:        "copy",
	OpDst:        "dst",
	OpDstOver:    "dst_over",
	OpSrcIn:      "in",
	OpDstIn:      "dst_in",
	OpSrcOut:     "out",
	OpDstOut:     "dst_out",
	OpSrcAtop:    "atop",
	OpDstAtop:    "dst_atop",
	OpXor:        "xor",
	OpPlus:       "plus",
	OpMultiply:   "multiply",
	OpScreen:     "screen",
	OpOverlay:    "overlay",
	OpDarken:     "darken",
	OpLighten:    "lighten",
	OpColorDodge: "color_dodge",
	OpColorBurn:  "color_burn",
	OpHardLight:  "hard_light",
	OpSoftLight:  "soft_light",
	OpDifference: "difference",
	OpExclusion:  "exclusion",
	OpHue:        "hue",
	OpSaturation: "saturate",
	OpColor:      "colorize",
	OpLuminosity: "luminize",
	OpCopyRed:    "copy_red",
	OpCopyGreen:  "copy_green",
	OpCopyBlue:   "copy_blue",
	OpCopyAlpha:  "copy_alpha",
}

var aliases = map[string]Op{
	"src_over":     OpOver,
	"src":          OpSrc,
	"src_in":       OpSrcIn,
	"src_out":      OpSrcOut,
	"src_atop":     OpSrcAtop,
	"add":          OpPlus,
	"saturation":   OpSaturation,
	"color":        OpColor,
	"luminosity":   OpLuminosity,
	"copy_opacity": OpCopyAlpha,
}

// String returns the canonical operator name.
func (op Op) String() string {
	if op >= opCount {
		return "unknown"
	}
	return opNames[op]
}

// IsValid reports whether op is a known operator.
func (op Op) IsValid() bool { return op < opCount }

// Parse looks up an operator by name. Names are expected in lower snake case.
func Parse(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	op, ok := aliases[strings.TrimSpace(name)]
	return op, ok
}

// Names lists the canonical operator names in declaration order.
func Names() []string {
	out := make([]string, len(opNames))
	copy(out, opNames[:])
	return out
}

// Apply composites src onto dst in place. Both are RGBA, straight alpha.
func (op Op) Apply(src, dst []float64) {
	switch {
	case op <= OpPlus:
		porterDuff(op, src, dst)
	case op <= OpExclusion:
		separable(op, src, dst)
	case op <= OpLuminosity:
		nonSeparable(op, src, dst)
	default:
		copyChannel(op, src, dst)
	}
}

func copyChannel(op Op, src, dst []float64) {
	switch op {
	case OpCopyRed:
		dst[0] = src[0]
	case OpCopyGreen:
		dst[1] = src[1]
	case OpCopyBlue:
		dst[2] = src[2]
	case OpCopyAlpha:
		dst[3] = src[3]
	}
}

// unpremultiply writes premultiplied color co with alpha ao back to dst.
func unpremultiply(dst []float64, cr, cg, cb, ao float64) {
	if ao <= 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	if ao > 1 {
		ao = 1
	}
	dst[0] = clamp01(cr / ao)
	dst[1] = clamp01(cg / ao)
	dst[2] = clamp01(cb / ao)
	dst[3] = ao
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
