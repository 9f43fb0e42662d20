package filter

import (
	"math"
	"slices"

	"github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// Method is a morphology operation.
type Method uint8

const (
	Erode Method = iota
	Dilate
	Open
	Close
	Smooth
	Thinning
	Thicken
	Distance
	HitAndMiss
)

var methodNames = [...]string{
	Erode:      "erode",
	Dilate:     "dilate",
	Open:       "open",
	Close:      "close",
	Smooth:     "smooth",
	Thinning:   "thinning",
	Thicken:    "thicken",
	Distance:   "distance",
	HitAndMiss: "hit_and_miss",
}

// String returns the method name.
func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return "unknown"
}

// ParseMethod looks up a method by name.
func ParseMethod(name string) (Method, bool) {
	i := slices.Index(methodNames[:], name)
	if i < 0 {
		return 0, false
	}
	return Method(i), true
}

// Hit-and-miss element classes.
const (
	foreground = 0.7
	background = 0.3
)

// Morphology runs method over src with the kernel list. Erode, dilate,
// thinning and thicken apply the kernels one after another; hit-and-miss
// takes the union over all kernels. Negative iterations repeat until the
// result stops changing; zero returns a copy.
//
// Erode and dilate use the elements >= 0.5 of each kernel as a flat
// structuring element; a kernel without such elements leaves the image
// unchanged.
func Morphology(src *image.Floats, method Method, kernels []*Kernel, iterations int, mask Mask, workers int) *image.Floats {
	limit := iterations
	if iterations < 0 {
		limit = max(src.W, src.H) + 1
	}

	cur := src.Clone()
	step := func(f func(*image.Floats) *image.Floats) {
		for range limit {
			next := f(cur)
			done := slices.Equal(next.Pix, cur.Pix)
			cur = next
			if done {
				return
			}
		}
	}
	each := func(prim func(*image.Floats, *Kernel) *image.Floats) func(*image.Floats) *image.Floats {
		return func(in *image.Floats) *image.Floats {
			for _, k := range kernels {
				in = prim(in, k)
			}
			return in
		}
	}
	erode := each(func(in *image.Floats, k *Kernel) *image.Floats { return erodeDilate(in, k, false, mask, workers) })
	dilate := each(func(in *image.Floats, k *Kernel) *image.Floats { return erodeDilate(in, k, true, mask, workers) })

	switch method {
	case Erode:
		step(erode)
	case Dilate:
		step(dilate)
	case Open:
		step(erode)
		step(dilate)
	case Close:
		step(dilate)
		step(erode)
	case Smooth:
		step(erode)
		step(dilate)
		step(dilate)
		step(erode)
	case HitAndMiss:
		step(func(in *image.Floats) *image.Floats { return hitAndMiss(in, kernels, mask, workers) })
	case Thinning:
		step(each(func(in *image.Floats, k *Kernel) *image.Floats {
			h := hitAndMiss(in, []*Kernel{k}, mask, workers)
			return combine(in, h, mask, func(a, b float64) float64 { return max(a-b, 0) })
		}))
	case Thicken:
		step(each(func(in *image.Floats, k *Kernel) *image.Floats {
			h := hitAndMiss(in, []*Kernel{k}, mask, workers)
			return combine(in, h, mask, func(a, b float64) float64 { return min(a+b, 1) })
		}))
	case Distance:
		step(each(func(in *image.Floats, k *Kernel) *image.Floats { return distanceTransform(in, k, mask) }))
	}
	return cur
}

// active lists the kernel offsets (relative to the origin) selected by pick.
func active(k *Kernel, pick func(float64) bool) [][2]int {
	var out [][2]int
	for v := 0; v < k.Height; v++ {
		for u := 0; u < k.Width; u++ {
			w := k.At(u, v)
			if !math.IsNaN(w) && pick(w) {
				out = append(out, [2]int{u - k.X, v - k.Y})
			}
		}
	}
	return out
}

func erodeDilate(src *image.Floats, k *Kernel, dilate bool, mask Mask, workers int) *image.Floats {
	offs := active(k, func(w float64) bool { return w >= 0.5 })
	if len(offs) == 0 {
		return src.Clone()
	}
	if dilate {
		for i := range offs {
			offs[i] = [2]int{-offs[i][0], -offs[i][1]}
		}
	}
	dst := image.NewFloats(src.W, src.H, src.C)
	parallel.Rows(workers, src.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.W; x++ {
				for ch := 0; ch < src.C; ch++ {
					if !mask.Has(ch) {
						dst.Set(x, y, ch, src.At(x, y, ch))
						continue
					}
					best := math.Inf(1)
					if dilate {
						best = math.Inf(-1)
					}
					for _, o := range offs {
						v := src.At(clampInt(x+o[0], 0, src.W-1), clampInt(y+o[1], 0, src.H-1), ch)
						if dilate {
							best = max(best, v)
						} else {
							best = min(best, v)
						}
					}
					dst.Set(x, y, ch, best)
				}
			}
		}
	})
	return dst
}

// hitAndMiss scores each pixel by the darkest foreground element minus the
// brightest background element, clamped at zero, and keeps the best score
// over the kernels.
func hitAndMiss(src *image.Floats, kernels []*Kernel, mask Mask, workers int) *image.Floats {
	type split struct{ fg, bg [][2]int }
	sets := make([]split, len(kernels))
	for i, k := range kernels {
		sets[i] = split{
			fg: active(k, func(w float64) bool { return w > foreground }),
			bg: active(k, func(w float64) bool { return w < background }),
		}
	}
	dst := image.NewFloats(src.W, src.H, src.C)
	parallel.Rows(workers, src.H, func(y0, y1 int) {
		at := func(x, y, ch int) float64 {
			return src.At(clampInt(x, 0, src.W-1), clampInt(y, 0, src.H-1), ch)
		}
		for y := y0; y < y1; y++ {
			for x := 0; x < src.W; x++ {
				for ch := 0; ch < src.C; ch++ {
					if !mask.Has(ch) {
						dst.Set(x, y, ch, src.At(x, y, ch))
						continue
					}
					score := 0.0
					for _, s := range sets {
						fg, bg := 1.0, 0.0
						for _, o := range s.fg {
							fg = min(fg, at(x+o[0], y+o[1], ch))
						}
						for _, o := range s.bg {
							bg = max(bg, at(x+o[0], y+o[1], ch))
						}
						score = max(score, fg-bg)
					}
					dst.Set(x, y, ch, score)
				}
			}
		}
	})
	return dst
}

func combine(a, b *image.Floats, mask Mask, fn func(a, b float64) float64) *image.Floats {
	out := a.Clone()
	for i := range out.Pix {
		if mask.Has(i % out.C) {
			out.Pix[i] = fn(a.Pix[i], b.Pix[i])
		}
	}
	return out
}

// distanceTransform is a two-pass chamfer transform: a forward raster scan
// using the kernel elements before the origin, then a backward scan using
// the elements after it. Each sample becomes the minimum of itself and
// neighbor plus element cost.
func distanceTransform(src *image.Floats, k *Kernel, mask Mask) *image.Floats {
	type cost struct {
		du, dv int
		w      float64
	}
	var fwd, bwd []cost
	for v := 0; v < k.Height; v++ {
		for u := 0; u < k.Width; u++ {
			w := k.At(u, v)
			if math.IsNaN(w) {
				continue
			}
			du, dv := u-k.X, v-k.Y
			switch {
			case dv < 0 || (dv == 0 && du < 0):
				fwd = append(fwd, cost{du, dv, w})
			case dv > 0 || (dv == 0 && du > 0):
				bwd = append(bwd, cost{du, dv, w})
			}
		}
	}
	out := src.Clone()
	relax := func(x, y, ch int, costs []cost) {
		best := out.At(x, y, ch)
		for _, c := range costs {
			nx, ny := x+c.du, y+c.dv
			if nx < 0 || ny < 0 || nx >= out.W || ny >= out.H {
				continue
			}
			best = min(best, out.At(nx, ny, ch)+c.w)
		}
		out.Set(x, y, ch, best)
	}
	for ch := 0; ch < out.C; ch++ {
		if !mask.Has(ch) {
			continue
		}
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				relax(x, y, ch, fwd)
			}
		}
		for y := out.H - 1; y >= 0; y-- {
			for x := out.W - 1; x >= 0; x-- {
				relax(x, y, ch, bwd)
			}
		}
	}
	return out
}
