package filter

import (
	"slices"

	"github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// Median replaces every selected sample with the median of its
// (2*radius+1)^2 neighborhood. Edges are clamped.
func Median(src *image.Floats, radius int, mask Mask, workers int) *image.Floats {
	if radius < 1 {
		return src.Clone()
	}
	dst := image.NewFloats(src.W, src.H, src.C)
	n := 2*radius + 1
	c := src.C
	parallel.Rows(workers, src.H, func(y0, y1 int) {
		window := make([]float64, n*n)
		for y := y0; y < y1; y++ {
			out := dst.Row(y)
			for x := 0; x < src.W; x++ {
				for ch := 0; ch < c; ch++ {
					if !mask.Has(ch) {
						out[x*c+ch] = src.At(x, y, ch)
						continue
					}
					i := 0
					for v := -radius; v <= radius; v++ {
						sy := clampInt(y+v, 0, src.H-1)
						for u := -radius; u <= radius; u++ {
							window[i] = src.At(clampInt(x+u, 0, src.W-1), sy, ch)
							i++
						}
					}
					slices.Sort(window)
					out[x*c+ch] = window[len(window)/2]
				}
			}
		}
	})
	return dst
}
