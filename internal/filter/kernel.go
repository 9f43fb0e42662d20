package filter

import (
	"math"
	"sync"

	"github.com/chewxy/math32"
)

// Kernel is a rectangular weight matrix with an origin. Values are stored
// row-major; NaN marks a "don't care" element that morphology skips and
// convolution treats as zero.
type Kernel struct {
	Width, Height int
	X, Y          int
	Values        []float64
}

// NewKernel allocates a zeroed kernel with its origin at the center.
func NewKernel(w, h int) *Kernel {
	return &Kernel{Width: w, Height: h, X: (w - 1) / 2, Y: (h - 1) / 2, Values: make([]float64, w*h)}
}

// At returns the value at column u, row v.
func (k *Kernel) At(u, v int) float64 {
	return k.Values[v*k.Width+u]
}

// Set writes the value at column u, row v.
func (k *Kernel) Set(u, v int, val float64) {
	k.Values[v*k.Width+u] = val
}

// Sum adds every defined value.
func (k *Kernel) Sum() float64 {
	s := 0.0
	for _, v := range k.Values {
		if !math.IsNaN(v) {
			s += v
		}
	}
	return s
}

// Clone returns a deep copy.
func (k *Kernel) Clone() *Kernel {
	out := *k
	out.Values = append([]float64(nil), k.Values...)
	return &out
}

// Rotate90 returns the kernel rotated a quarter turn clockwise.
func (k *Kernel) Rotate90() *Kernel {
	out := &Kernel{Width: k.Height, Height: k.Width, Values: make([]float64, len(k.Values))}
	for v := 0; v < k.Height; v++ {
		for u := 0; u < k.Width; u++ {
			out.Set(k.Height-1-v, u, k.At(u, v))
		}
	}
	out.X = k.Height - 1 - k.Y
	out.Y = k.X
	return out
}

// Reflect returns the kernel mirrored through its origin.
func (k *Kernel) Reflect() *Kernel {
	out := &Kernel{Width: k.Width, Height: k.Height, Values: make([]float64, len(k.Values))}
	n := len(k.Values)
	for i, v := range k.Values {
		out.Values[n-1-i] = v
	}
	out.X = k.Width - 1 - k.X
	out.Y = k.Height - 1 - k.Y
	return out
}

// Normalize scales the kernel so its defined values sum to 1. A zero-sum
// kernel is left untouched.
func (k *Kernel) Normalize() {
	s := k.Sum()
	if s == 0 {
		return
	}
	for i, v := range k.Values {
		k.Values[i] = v / s
	}
}

// KernelRadius returns the half-width of a Gaussian kernel. A positive
// radius is used as given; otherwise the width is derived from sigma so
// the kernel covers three standard deviations.
func KernelRadius(radius, sigma float64) int {
	if radius >= 1 {
		return int(radius)
	}
	r := int(math32.Ceil(3 * float32(sigma)))
	return max(r, 1)
}

// GaussianKernel generates a normalized 1D Gaussian kernel of half-width
// KernelRadius(radius, sigma).
//
// For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(radius, sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	half := KernelRadius(radius, sigma)
	size := 2*half + 1
	kernel := make([]float32, size)

	s := float32(sigma)
	twoSigmaSq := 2 * s * s
	var sum float32
	for i := range size {
		x := float32(i - half)
		v := math32.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = v
		sum += v
	}
	inv := 1 / sum
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// BoxKernel generates a 1D box kernel: every weight is 1/(2*radius+1).
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	size := radius*2 + 1
	kernel := make([]float32, size)
	v := 1 / float32(size)
	for i := range kernel {
		kernel[i] = v
	}
	return kernel
}

// Gaussian2D builds a normalized square Gaussian kernel.
func Gaussian2D(radius, sigma float64) *Kernel {
	half := KernelRadius(radius, sigma)
	k := NewKernel(2*half+1, 2*half+1)
	s := float32(sigma)
	twoSigmaSq := 2 * s * s
	for v := -half; v <= half; v++ {
		for u := -half; u <= half; u++ {
			d := float32(u*u + v*v)
			k.Set(u+half, v+half, float64(math32.Exp(-d/twoSigmaSq)))
		}
	}
	k.Normalize()
	return k
}

// SharpenKernel is the negated Gaussian normalized to -1 with +2 added at
// the origin, so the weights sum to 1.
func SharpenKernel(radius, sigma float64) *Kernel {
	k := Gaussian2D(radius, sigma)
	for i, v := range k.Values {
		k.Values[i] = -v
	}
	c := k.Y*k.Width + k.X
	k.Values[c] += 2
	return k
}

// EdgeKernel is a Laplacian-style kernel: -1 everywhere and n*n-1 at the
// origin. Uniform regions map to zero.
func EdgeKernel(radius float64) *Kernel {
	half := max(int(radius), 1)
	n := 2*half + 1
	k := NewKernel(n, n)
	for i := range k.Values {
		k.Values[i] = -1
	}
	k.Set(half, half, float64(n*n-1))
	return k
}

// EmbossKernel weights the anti-diagonal with a Gaussian profile, positive
// above the origin and negative below, so the weights sum to zero.
func EmbossKernel(radius, sigma float64) *Kernel {
	half := KernelRadius(radius, sigma)
	n := 2*half + 1
	k := NewKernel(n, n)
	s := float32(sigma)
	twoSigmaSq := 2 * s * s
	for v := -half; v <= half; v++ {
		u := -v
		if v == 0 {
			continue
		}
		w := float64(math32.Exp(-float32(u*u+v*v) / twoSigmaSq))
		if v > 0 {
			w = -w
		}
		k.Set(u+half, v+half, w)
	}
	return k
}

// gaussianKey quantizes radius and sigma to 0.01 precision.
type gaussianKey struct {
	radius, sigma int
}

// kernelCache caches computed Gaussian kernels to avoid recomputation.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[gaussianKey][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[gaussianKey][]float32),
		maxLen: maxLen,
	}
}

func (c *kernelCache) get(radius, sigma float64) []float32 {
	key := gaussianKey{int(radius * 100), int(sigma * 100)}

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := GaussianKernel(radius, sigma)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Simple eviction: clear half the cache.
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedGaussianKernel returns a shared Gaussian kernel. Callers must not
// modify the returned slice.
func CachedGaussianKernel(radius, sigma float64) []float32 {
	return defaultKernelCache.get(radius, sigma)
}
