// Package seam implements content-aware resizing by seam carving.
//
// A seam is an 8-connected path of one pixel per row (vertical seam) with
// the least accumulated gradient energy. Shrinking removes seams one at a
// time; enlarging finds the k cheapest seams of the original and
// duplicates them, so the same seam is not stretched repeatedly.
package seam

import (
	"math"
	"slices"

	"github.com/gogpu/pixel/internal/image"
)

// Carve resizes src to width x height. Both must be positive.
func Carve(src *image.Floats, width, height int) *image.Floats {
	out := src.Clone()
	out = resizeWidth(out, width)
	if height != out.H {
		out = resizeWidth(transpose(out), height)
		out = transpose(out)
	}
	return out
}

func resizeWidth(f *image.Floats, width int) *image.Floats {
	for f.W > width {
		f = removeSeam(f, findSeam(f))
	}
	for f.W < width {
		k := min(width-f.W, max(f.W-1, 1))
		f = insertSeams(f, k)
	}
	return f
}

// energy is the dual-gradient magnitude summed over channels, with edges
// clamped.
func energy(f *image.Floats) []float64 {
	e := make([]float64, f.W*f.H)
	for y := 0; y < f.H; y++ {
		up, down := max(y-1, 0), min(y+1, f.H-1)
		for x := 0; x < f.W; x++ {
			left, right := max(x-1, 0), min(x+1, f.W-1)
			var sum float64
			for c := 0; c < f.C; c++ {
				dx := f.At(right, y, c) - f.At(left, y, c)
				dy := f.At(x, down, c) - f.At(x, up, c)
				sum += dx*dx + dy*dy
			}
			e[y*f.W+x] = math.Sqrt(sum)
		}
	}
	return e
}

// findSeam returns the column of the cheapest vertical seam for each row.
func findSeam(f *image.Floats) []int {
	w, h := f.W, f.H
	cost := energy(f)
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			best := cost[(y-1)*w+x]
			if x > 0 {
				best = min(best, cost[(y-1)*w+x-1])
			}
			if x < w-1 {
				best = min(best, cost[(y-1)*w+x+1])
			}
			cost[y*w+x] += best
		}
	}

	seam := make([]int, h)
	last := cost[(h-1)*w : h*w]
	seam[h-1] = slices.Index(last, slices.Min(last))
	for y := h - 2; y >= 0; y-- {
		x := seam[y+1]
		bestX := x
		for _, nx := range []int{x - 1, x + 1} {
			if nx >= 0 && nx < w && cost[y*w+nx] < cost[y*w+bestX] {
				bestX = nx
			}
		}
		seam[y] = bestX
	}
	return seam
}

func removeSeam(f *image.Floats, seam []int) *image.Floats {
	out := image.NewFloats(f.W-1, f.H, f.C)
	c := f.C
	for y := 0; y < f.H; y++ {
		src, dst := f.Row(y), out.Row(y)
		x := seam[y]
		copy(dst[:x*c], src[:x*c])
		copy(dst[x*c:], src[(x+1)*c:])
	}
	return out
}

// insertSeams widens f by k columns. The k cheapest seams are found by
// carving a working copy while tracking original column indices; each is
// then duplicated in f as the average of the seam pixel and its right
// neighbor.
func insertSeams(f *image.Floats, k int) *image.Floats {
	work := f.Clone()
	index := make([][]int, f.H)
	for y := range index {
		index[y] = make([]int, f.W)
		for x := range index[y] {
			index[y][x] = x
		}
	}
	chosen := make([][]int, f.H)
	for range k {
		if work.W < 2 {
			break
		}
		seam := findSeam(work)
		for y, x := range seam {
			chosen[y] = append(chosen[y], index[y][x])
			index[y] = slices.Delete(index[y], x, x+1)
		}
		work = removeSeam(work, seam)
	}
	if len(chosen[0]) == 0 {
		// A single column: repeat it.
		for y := range chosen {
			chosen[y] = append(chosen[y], 0)
		}
	}

	n := len(chosen[0])
	out := image.NewFloats(f.W+n, f.H, f.C)
	c := f.C
	for y := 0; y < f.H; y++ {
		cols := chosen[y]
		slices.Sort(cols)
		src, dst := f.Row(y), out.Row(y)
		ox, ci := 0, 0
		for x := 0; x < f.W; x++ {
			copy(dst[ox*c:(ox+1)*c], src[x*c:(x+1)*c])
			ox++
			for ci < len(cols) && cols[ci] == x {
				nx := min(x+1, f.W-1)
				for ch := 0; ch < c; ch++ {
					dst[ox*c+ch] = (src[x*c+ch] + src[nx*c+ch]) / 2
				}
				ox++
				ci++
			}
		}
	}
	return out
}

func transpose(f *image.Floats) *image.Floats {
	out := image.NewFloats(f.H, f.W, f.C)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			copy(out.Pixel(y, x), f.Pixel(x, y))
		}
	}
	return out
}
