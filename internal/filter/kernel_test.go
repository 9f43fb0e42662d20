package filter

import (
	"math"
	"testing"
)

func TestGaussianKernelZeroSigma(t *testing.T) {
	kernel := GaussianKernel(0, 0)
	if len(kernel) != 1 || kernel[0] != 1 {
		t.Errorf("GaussianKernel(0, 0) = %v, want [1]", kernel)
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 2, 3, 5} {
		kernel := GaussianKernel(0, sigma)
		var sum float32
		for _, v := range kernel {
			sum += v
		}
		if math.Abs(float64(sum)-1) > 0.001 {
			t.Errorf("GaussianKernel(0, %v) sum = %v, want ~1", sigma, sum)
		}
	}
}

func TestGaussianKernelSymmetric(t *testing.T) {
	kernel := GaussianKernel(0, 2)
	n := len(kernel)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if math.Abs(float64(kernel[i]-kernel[j])) > 1e-6 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v", i, kernel[i], j, kernel[j])
		}
	}
}

func TestKernelRadius(t *testing.T) {
	tests := []struct {
		radius, sigma float64
		want          int
	}{
		{0, 1, 3},
		{0, 0.1, 1},
		{0, 2.5, 8},
		{4, 1, 4},
		{0.5, 1, 3},
	}
	for _, tt := range tests {
		if got := KernelRadius(tt.radius, tt.sigma); got != tt.want {
			t.Errorf("KernelRadius(%v, %v) = %d, want %d", tt.radius, tt.sigma, got, tt.want)
		}
	}
}

func TestGaussianKernelExplicitRadius(t *testing.T) {
	if got := len(GaussianKernel(2, 5)); got != 5 {
		t.Errorf("len(GaussianKernel(2, 5)) = %d, want 5", got)
	}
}

func TestBoxKernel(t *testing.T) {
	kernel := BoxKernel(2)
	if len(kernel) != 5 {
		t.Fatalf("len = %d, want 5", len(kernel))
	}
	for i, v := range kernel {
		if math.Abs(float64(v)-0.2) > 1e-6 {
			t.Errorf("kernel[%d] = %v, want 0.2", i, v)
		}
	}
}

func TestSharpenKernelSumsToOne(t *testing.T) {
	k := SharpenKernel(0, 1)
	if math.Abs(k.Sum()-1) > 1e-9 {
		t.Errorf("sum = %v, want 1", k.Sum())
	}
	if k.At(k.X, k.Y) <= 1 {
		t.Errorf("center = %v, want > 1", k.At(k.X, k.Y))
	}
}

func TestEdgeKernelSumsToZero(t *testing.T) {
	k := EdgeKernel(1)
	if k.Sum() != 0 {
		t.Errorf("sum = %v, want 0", k.Sum())
	}
	if k.At(1, 1) != 8 {
		t.Errorf("center = %v, want 8", k.At(1, 1))
	}
}

func TestEmbossKernelSumsToZero(t *testing.T) {
	k := EmbossKernel(0, 1)
	if math.Abs(k.Sum()) > 1e-9 {
		t.Errorf("sum = %v, want 0", k.Sum())
	}
}

func TestKernelRotate90(t *testing.T) {
	k := &Kernel{Width: 3, Height: 2, X: 0, Y: 0, Values: []float64{
		1, 2, 3,
		4, 5, 6,
	}}
	r := k.Rotate90()
	want := []float64{
		4, 1,
		5, 2,
		6, 3,
	}
	if r.Width != 2 || r.Height != 3 {
		t.Fatalf("size = %dx%d, want 2x3", r.Width, r.Height)
	}
	for i, v := range want {
		if r.Values[i] != v {
			t.Errorf("Values[%d] = %v, want %v", i, r.Values[i], v)
		}
	}
	if r.X != 1 || r.Y != 0 {
		t.Errorf("origin = (%d, %d), want (1, 0)", r.X, r.Y)
	}
}

func TestKernelReflect(t *testing.T) {
	k := &Kernel{Width: 3, Height: 1, X: 0, Values: []float64{1, 2, 3}}
	r := k.Reflect()
	if r.Values[0] != 3 || r.Values[2] != 1 || r.X != 2 {
		t.Errorf("Reflect = %v origin %d", r.Values, r.X)
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	a := CachedGaussianKernel(0, 1.5)
	b := CachedGaussianKernel(0, 1.5)
	if &a[0] != &b[0] {
		t.Error("CachedGaussianKernel returned distinct slices for the same key")
	}
}
