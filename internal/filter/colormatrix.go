package filter

import (
	"math"

	"github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// ColorMatrix is a 6x6 color transformation. Rows and columns address the
// channels red, green, blue, black, alpha and a constant offset:
//
//	[R']   [m00 m01 m02 m03 m04 m05]   [R]
//	[G']   [m10 m11 m12 m13 m14 m15]   [G]
//	[B'] = [m20 m21 m22 m23 m24 m25] * [B]
//	[K']   [m30 m31 m32 m33 m34 m35]   [K]
//	[A']   [m40 m41 m42 m43 m44 m45]   [A]
//	                                   [1]
//
// Channels absent from an image read as zero and are not written.
type ColorMatrix struct {
	M [6][6]float64
}

// Matrix slot order.
const (
	SlotRed = iota
	SlotGreen
	SlotBlue
	SlotBlack
	SlotAlpha
	SlotOffset
)

// IdentityColorMatrix passes every channel through unchanged.
func IdentityColorMatrix() *ColorMatrix {
	m := &ColorMatrix{}
	for i := range 6 {
		m.M[i][i] = 1
	}
	return m
}

// NewColorMatrix builds a matrix from an n*n row-major list, 1 <= n <= 6.
// Rows and columns beyond n keep the identity. It reports false when the
// length is not a perfect square in range.
func NewColorMatrix(values []float64) (*ColorMatrix, bool) {
	n := int(math.Sqrt(float64(len(values))))
	if n < 1 || n > 6 || n*n != len(values) {
		return nil, false
	}
	m := IdentityColorMatrix()
	for r := range n {
		for c := range n {
			m.M[r][c] = values[r*n+c]
		}
	}
	return m, true
}

// NewSaturationMatrix blends each color toward its Rec. 709 luminance:
// 0 is grayscale, 1 is unchanged.
func NewSaturationMatrix(factor float64) *ColorMatrix {
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)
	inv := 1 - factor
	m := IdentityColorMatrix()
	m.M[0][0], m.M[0][1], m.M[0][2] = lumR*inv+factor, lumG*inv, lumB*inv
	m.M[1][0], m.M[1][1], m.M[1][2] = lumR*inv, lumG*inv+factor, lumB*inv
	m.M[2][0], m.M[2][1], m.M[2][2] = lumR*inv, lumG*inv, lumB*inv+factor
	return m
}

// Apply transforms every pixel of f in place. slots maps each matrix slot
// (red through alpha) to a channel index in f, or -1 when absent.
func (m *ColorMatrix) Apply(f *image.Floats, slots [5]int, workers int) {
	parallel.Rows(workers, f.H, func(y0, y1 int) {
		var in, out [6]float64
		for y := y0; y < y1; y++ {
			row := f.Row(y)
			for x := 0; x < f.W; x++ {
				px := row[x*f.C : (x+1)*f.C]
				for s, ch := range slots {
					in[s] = 0
					if ch >= 0 {
						in[s] = px[ch]
					}
				}
				in[SlotOffset] = 1
				for r := range 5 {
					var sum float64
					for c := range 6 {
						sum += m.M[r][c] * in[c]
					}
					out[r] = sum
				}
				for s, ch := range slots {
					if ch >= 0 {
						px[ch] = out[s]
					}
				}
			}
		}
	})
}
