package image

import "math"

// Interp selects the reconstruction filter used when sampling between pixels.
type Interp uint8

const (
	// InterpNearest selects the pixel containing the sample point.
	InterpNearest Interp = iota

	// InterpBilinear blends the 2x2 neighborhood.
	InterpBilinear

	// InterpBicubic uses Catmull-Rom weights over a 4x4 neighborhood.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m Interp) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// Edge decides what a lookup outside the plane returns.
type Edge uint8

const (
	// EdgeConstant returns the sampler's Background.
	EdgeConstant Edge = iota

	// EdgeClamp repeats the nearest edge pixel.
	EdgeClamp

	// EdgeTile wraps around.
	EdgeTile

	// EdgeMirror reflects at the border.
	EdgeMirror
)

// Sampler reads a Floats plane at continuous coordinates. Pixel (i, j) covers
// [i, i+1) x [j, j+1); its center is at (i+0.5, j+0.5).
type Sampler struct {
	Src        *Floats
	Interp     Interp
	Edge       Edge
	Background []float64
}

// At samples (x, y) into dst, which must hold Src.C values.
func (s *Sampler) At(x, y float64, dst []float64) {
	switch s.Interp {
	case InterpNearest:
		copy(dst, s.texel(int(math.Floor(x)), int(math.Floor(y))))
	case InterpBicubic:
		s.bicubic(x-0.5, y-0.5, dst)
	default:
		s.bilinear(x-0.5, y-0.5, dst)
	}
}

func (s *Sampler) bilinear(fx, fy float64, dst []float64) {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	p00 := s.texel(x0, y0)
	p10 := s.texel(x0+1, y0)
	p01 := s.texel(x0, y0+1)
	p11 := s.texel(x0+1, y0+1)
	for c := range dst {
		dst[c] = lerp2D(p00[c], p10[c], p01[c], p11[c], tx, ty)
	}
}

func (s *Sampler) bicubic(fx, fy float64, dst []float64) {
	x := int(math.Floor(fx))
	y := int(math.Floor(fy))
	tx := fx - float64(x)
	ty := fy - float64(y)

	wx := [4]float64{cubicWeight(tx + 1), cubicWeight(tx), cubicWeight(tx - 1), cubicWeight(tx - 2)}
	wy := [4]float64{cubicWeight(ty + 1), cubicWeight(ty), cubicWeight(ty - 1), cubicWeight(ty - 2)}

	for c := range dst {
		dst[c] = 0
	}
	for j := range 4 {
		for i := range 4 {
			p := s.texel(x+i-1, y+j-1)
			w := wx[i] * wy[j]
			for c := range dst {
				dst[c] += p[c] * w
			}
		}
	}
}

// texel returns the pixel at integer coordinates after edge handling.
func (s *Sampler) texel(x, y int) []float64 {
	w, h := s.Src.W, s.Src.H
	if x >= 0 && y >= 0 && x < w && y < h {
		return s.Src.Pixel(x, y)
	}
	switch s.Edge {
	case EdgeClamp:
		return s.Src.Pixel(clamp(x, 0, w-1), clamp(y, 0, h-1))
	case EdgeTile:
		return s.Src.Pixel(wrap(x, w), wrap(y, h))
	case EdgeMirror:
		return s.Src.Pixel(mirror(x, w), mirror(y, h))
	default:
		return s.Background
	}
}

// clamp clamps an integer value to [minVal, maxVal].
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func mirror(v, n int) int {
	period := 2 * n
	v = wrap(v, period)
	if v >= n {
		v = period - 1 - v
	}
	return v
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

// cubicWeight computes the Catmull-Rom cubic weight for distance t.
func cubicWeight(t float64) float64 {
	absT := math.Abs(t)
	if absT < 1 {
		return 1.5*absT*absT*absT - 2.5*absT*absT + 1.0
	}
	if absT < 2 {
		return -0.5*absT*absT*absT + 2.5*absT*absT - 4.0*absT + 2.0
	}
	return 0
}
