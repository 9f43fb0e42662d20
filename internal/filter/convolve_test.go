package filter

import (
	"math"
	"testing"

	"github.com/gogpu/pixel/internal/image"
)

func uniform(w, h, c int, v float64) *image.Floats {
	f := image.NewFloats(w, h, c)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func TestGaussianBlurPreservesUniform(t *testing.T) {
	src := uniform(20, 20, 3, 0.4)
	dst := GaussianBlur(src, 0, 2, nil, 4)
	for i, v := range dst.Pix {
		if math.Abs(v-0.4) > 1e-5 {
			t.Fatalf("Pix[%d] = %v, want 0.4", i, v)
		}
	}
}

func TestGaussianBlurSpreadsImpulse(t *testing.T) {
	src := image.NewFloats(9, 9, 1)
	src.Set(4, 4, 0, 1)
	dst := GaussianBlur(src, 0, 1, nil, 1)
	if dst.At(4, 4, 0) >= 1 {
		t.Errorf("center = %v, want < 1", dst.At(4, 4, 0))
	}
	if dst.At(3, 4, 0) <= 0 {
		t.Errorf("neighbor = %v, want > 0", dst.At(3, 4, 0))
	}
	if math.Abs(dst.At(3, 4, 0)-dst.At(5, 4, 0)) > 1e-9 {
		t.Error("blur is not symmetric")
	}
}

func TestSeparableMask(t *testing.T) {
	src := image.NewFloats(5, 5, 2)
	src.Set(2, 2, 0, 1)
	src.Set(2, 2, 1, 1)
	dst := GaussianBlur(src, 0, 1, Mask{true, false}, 1)
	if dst.At(2, 2, 1) != 1 || dst.At(1, 2, 1) != 0 {
		t.Error("unselected channel was modified")
	}
	if dst.At(1, 2, 0) == 0 {
		t.Error("selected channel was not blurred")
	}
}

func TestConvolveIdentity(t *testing.T) {
	src := image.NewFloats(4, 3, 1)
	for i := range src.Pix {
		src.Pix[i] = float64(i) / 12
	}
	k := NewKernel(3, 3)
	k.Set(1, 1, 1)
	dst := Convolve(src, k, 0, nil, 1)
	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("Pix[%d] = %v, want %v", i, dst.Pix[i], src.Pix[i])
		}
	}
}

func TestConvolveEdgeOnUniformIsZero(t *testing.T) {
	dst := Convolve(uniform(6, 6, 1, 0.7), EdgeKernel(1), 0, nil, 2)
	for i, v := range dst.Pix {
		if math.Abs(v) > 1e-9 {
			t.Fatalf("Pix[%d] = %v, want 0", i, v)
		}
	}
}

func TestConvolveBias(t *testing.T) {
	dst := Convolve(uniform(3, 3, 1, 0.2), EmbossKernel(0, 1), 0.5, nil, 1)
	for i, v := range dst.Pix {
		if math.Abs(v-0.5) > 1e-9 {
			t.Fatalf("Pix[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestMedianRemovesSpeck(t *testing.T) {
	src := uniform(5, 5, 1, 0)
	src.Set(2, 2, 0, 1)
	dst := Median(src, 1, nil, 1)
	if dst.At(2, 2, 0) != 0 {
		t.Errorf("speck survived: %v", dst.At(2, 2, 0))
	}
}

func TestMedianZeroRadiusCopies(t *testing.T) {
	src := uniform(2, 2, 1, 0.3)
	dst := Median(src, 0, nil, 1)
	dst.Pix[0] = 1
	if src.Pix[0] != 0.3 {
		t.Error("Median(0) aliased its input")
	}
}

func TestMaskHas(t *testing.T) {
	var all Mask
	if !all.Has(3) {
		t.Error("nil mask should select every channel")
	}
	m := Mask{false, true}
	if m.Has(0) || !m.Has(1) || m.Has(2) {
		t.Errorf("Mask%v selection wrong", m)
	}
}

func TestColorMatrix(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		f := image.NewFloats(1, 1, 4)
		copy(f.Pix, []float64{0.1, 0.2, 0.3, 1})
		IdentityColorMatrix().Apply(f, [5]int{0, 1, 2, -1, 3}, 1)
		want := []float64{0.1, 0.2, 0.3, 1}
		for i, v := range want {
			if math.Abs(f.Pix[i]-v) > 1e-12 {
				t.Errorf("Pix[%d] = %v, want %v", i, f.Pix[i], v)
			}
		}
	})
	t.Run("swap red and blue", func(t *testing.T) {
		m, ok := NewColorMatrix([]float64{
			0, 0, 1,
			0, 1, 0,
			1, 0, 0,
		})
		if !ok {
			t.Fatal("NewColorMatrix rejected a 3x3 matrix")
		}
		f := image.NewFloats(1, 1, 3)
		copy(f.Pix, []float64{1, 0.5, 0})
		m.Apply(f, [5]int{0, 1, 2, -1, -1}, 1)
		if f.Pix[0] != 0 || f.Pix[1] != 0.5 || f.Pix[2] != 1 {
			t.Errorf("Pix = %v, want [0 0.5 1]", f.Pix)
		}
	})
	t.Run("bad length", func(t *testing.T) {
		if _, ok := NewColorMatrix(make([]float64, 5)); ok {
			t.Error("NewColorMatrix accepted 5 values")
		}
		if _, ok := NewColorMatrix(make([]float64, 49)); ok {
			t.Error("NewColorMatrix accepted a 7x7 matrix")
		}
	})
	t.Run("grayscale", func(t *testing.T) {
		f := image.NewFloats(1, 1, 3)
		copy(f.Pix, []float64{1, 0, 0})
		NewSaturationMatrix(0).Apply(f, [5]int{0, 1, 2, -1, -1}, 1)
		if math.Abs(f.Pix[0]-0.2126) > 1e-9 || f.Pix[0] != f.Pix[1] || f.Pix[1] != f.Pix[2] {
			t.Errorf("Pix = %v, want all 0.2126", f.Pix)
		}
	})
}
