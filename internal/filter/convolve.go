package filter

import (
	"math"

	"github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// Mask selects the channels an operation touches; a nil Mask selects all.
// Unselected channels are copied through unchanged.
type Mask []bool

// Has reports whether channel c is selected.
func (m Mask) Has(c int) bool {
	return m == nil || (c < len(m) && m[c])
}

// Separable convolves src with kx along rows and then ky along columns.
// Samples outside the plane repeat the nearest edge pixel.
func Separable(src *image.Floats, kx, ky []float32, mask Mask, workers int) *image.Floats {
	tmp := image.GetFloats(src.W, src.H, src.C)
	defer image.PutFloats(tmp)
	dst := image.NewFloats(src.W, src.H, src.C)

	parallel.Rows(workers, src.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			horizontal(src, tmp, y, kx, mask)
		}
	})
	parallel.Rows(workers, src.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			vertical(tmp, dst, y, ky, mask)
		}
	})
	return dst
}

func horizontal(src, dst *image.Floats, y int, kernel []float32, mask Mask) {
	half := len(kernel) / 2
	in := src.Row(y)
	out := dst.Row(y)
	c := src.C
	for x := 0; x < src.W; x++ {
		for ch := 0; ch < c; ch++ {
			if !mask.Has(ch) {
				out[x*c+ch] = in[x*c+ch]
				continue
			}
			var sum float64
			for i, w := range kernel {
				sx := clampInt(x+i-half, 0, src.W-1)
				sum += float64(w) * in[sx*c+ch]
			}
			out[x*c+ch] = sum
		}
	}
}

func vertical(src, dst *image.Floats, y int, kernel []float32, mask Mask) {
	half := len(kernel) / 2
	out := dst.Row(y)
	c := src.C
	for x := 0; x < src.W; x++ {
		for ch := 0; ch < c; ch++ {
			if !mask.Has(ch) {
				out[x*c+ch] = src.At(x, y, ch)
				continue
			}
			var sum float64
			for i, w := range kernel {
				sy := clampInt(y+i-half, 0, src.H-1)
				sum += float64(w) * src.At(x, sy, ch)
			}
			out[x*c+ch] = sum
		}
	}
}

// Convolve applies a 2D kernel anchored at its origin and adds bias to
// every result. NaN weights contribute nothing.
func Convolve(src *image.Floats, k *Kernel, bias float64, mask Mask, workers int) *image.Floats {
	dst := image.NewFloats(src.W, src.H, src.C)
	c := src.C
	parallel.Rows(workers, src.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			out := dst.Row(y)
			for x := 0; x < src.W; x++ {
				for ch := 0; ch < c; ch++ {
					if !mask.Has(ch) {
						out[x*c+ch] = src.At(x, y, ch)
						continue
					}
					sum := bias
					for v := 0; v < k.Height; v++ {
						sy := clampInt(y+v-k.Y, 0, src.H-1)
						for u := 0; u < k.Width; u++ {
							w := k.At(u, v)
							if w == 0 || math.IsNaN(w) {
								continue
							}
							sx := clampInt(x+u-k.X, 0, src.W-1)
							sum += w * src.At(sx, sy, ch)
						}
					}
					out[x*c+ch] = sum
				}
			}
		}
	})
	return dst
}

// GaussianBlur is a separable Gaussian convolution.
func GaussianBlur(src *image.Floats, radius, sigma float64, mask Mask, workers int) *image.Floats {
	k := CachedGaussianKernel(radius, sigma)
	return Separable(src, k, k, mask, workers)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
