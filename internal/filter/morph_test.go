package filter

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/image"
)

func TestParseKernelLiteral(t *testing.T) {
	ks, err := ParseKernel("3x3: 0.3,0.6,0.3 0.6,1.0,0.6 0.3,0.6,0.3")
	if err != nil {
		t.Fatalf("ParseKernel: %v", err)
	}
	k := ks[0]
	if k.Width != 3 || k.Height != 3 || k.X != 1 || k.Y != 1 {
		t.Errorf("geometry = %dx%d+%d+%d", k.Width, k.Height, k.X, k.Y)
	}
	if k.At(1, 1) != 1 || k.At(0, 0) != 0.3 {
		t.Errorf("values = %v", k.Values)
	}
}

func TestParseKernelLiteralForms(t *testing.T) {
	tests := []struct {
		text       string
		w, h, x, y int
	}{
		{"1:0", 1, 1, 0, 0},
		{"3: 0,1,0 1,1,1 0,1,0", 3, 3, 1, 1},
		{"2x3+0+2: 1 1 1 1 1 1", 2, 3, 0, 2},
		{"3: -,1,- 1,nan,1 -,1,-", 3, 3, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ks, err := ParseKernel(tt.text)
			if err != nil {
				t.Fatalf("ParseKernel: %v", err)
			}
			k := ks[0]
			if k.Width != tt.w || k.Height != tt.h || k.X != tt.x || k.Y != tt.y {
				t.Errorf("got %dx%d+%d+%d, want %dx%d+%d+%d",
					k.Width, k.Height, k.X, k.Y, tt.w, tt.h, tt.x, tt.y)
			}
		})
	}
	ks, _ := ParseKernel("3: -,1,- 1,nan,1 -,1,-")
	if !math.IsNaN(ks[0].At(0, 0)) || !math.IsNaN(ks[0].At(1, 1)) {
		t.Error("don't-care elements not parsed as NaN")
	}
}

func TestParseKernelBuiltins(t *testing.T) {
	tests := []struct {
		text  string
		count int
		size  int
	}{
		{"unity", 1, 1},
		{"unity:x5", 1, 1},
		{"square", 1, 3},
		{"square:2", 1, 5},
		{"diamond", 1, 3},
		{"disk:5", 1, 11},
		{"disk", 1, 7},
		{"plus", 1, 5},
		{"cross:1", 1, 3},
		{"ring", 1, 7},
		{"octagon", 1, 5},
		{"rectangle:x-1", 1, 3},
		{"edges", 4, 3},
		{"corners", 4, 3},
		{"euclidean:4,10!", 1, 9},
		{"manhattan:20x25%", 1, 41},
		{"chebyshev:5.0", 1, 11},
		{"octagonal", 1, 3},
		{"Disk:2", 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ks, err := ParseKernel(tt.text)
			if err != nil {
				t.Fatalf("ParseKernel: %v", err)
			}
			if len(ks) != tt.count {
				t.Errorf("count = %d, want %d", len(ks), tt.count)
			}
			if ks[0].Width != tt.size {
				t.Errorf("width = %d, want %d", ks[0].Width, tt.size)
			}
		})
	}
}

func TestParseKernelRectangleOrigin(t *testing.T) {
	ks, err := ParseKernel("rectangle:4x2+0+1")
	if err != nil {
		t.Fatalf("ParseKernel: %v", err)
	}
	k := ks[0]
	if k.Width != 4 || k.Height != 2 || k.X != 0 || k.Y != 1 {
		t.Errorf("got %dx%d+%d+%d, want 4x2+0+1", k.Width, k.Height, k.X, k.Y)
	}
}

func TestParseKernelDistanceScale(t *testing.T) {
	ks, _ := ParseKernel("manhattan:1x50%")
	if got := ks[0].At(0, 1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("step = %v, want 0.5", got)
	}
	ks, _ = ParseKernel("chebyshev:2,100%!")
	if got := ks[0].At(2, 1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("step = %v, want 0.5", got)
	}
}

func TestParseKernelMultiple(t *testing.T) {
	ks, err := ParseKernel("square; 1: 1")
	if err != nil {
		t.Fatalf("ParseKernel: %v", err)
	}
	if len(ks) != 2 {
		t.Errorf("count = %d, want 2", len(ks))
	}
}

func TestParseKernelErrors(t *testing.T) {
	for _, text := range []string{
		"junk:0",
		"",
		"3x3: 1,2",
		"3x3+5+0: 1 1 1 1 1 1 1 1 1",
		"3: 1 1 1 1 x 1 1 1 1",
		"0x3:",
		"4y4: 1",
		"disk:abc",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseKernel(text)
			if !errors.Is(err, errs.ErrArgumentValue) {
				t.Errorf("ParseKernel(%q) error = %v, want ErrArgumentValue", text, err)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	for m := Erode; m <= HitAndMiss; m++ {
		got, ok := ParseMethod(m.String())
		if !ok || got != m {
			t.Errorf("ParseMethod(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseMethod("bogus"); ok {
		t.Error("ParseMethod accepted bogus")
	}
}

func dot(w, h int) *image.Floats {
	f := image.NewFloats(w, h, 1)
	f.Set(w/2, h/2, 0, 1)
	return f
}

func square3() []*Kernel {
	ks, _ := ParseKernel("square")
	return ks
}

func count(f *image.Floats) int {
	n := 0
	for _, v := range f.Pix {
		if v > 0.5 {
			n++
		}
	}
	return n
}

func TestMorphologyDilateErode(t *testing.T) {
	src := dot(7, 7)
	d := Morphology(src, Dilate, square3(), 1, nil, 1)
	if got := count(d); got != 9 {
		t.Errorf("dilate lit %d pixels, want 9", got)
	}
	e := Morphology(d, Erode, square3(), 1, nil, 1)
	if got := count(e); got != 1 {
		t.Errorf("erode lit %d pixels, want 1", got)
	}
	if count(src) != 1 {
		t.Error("Morphology modified its input")
	}
}

func TestMorphologyIterations(t *testing.T) {
	d := Morphology(dot(9, 9), Dilate, square3(), 2, nil, 1)
	if got := count(d); got != 25 {
		t.Errorf("dilate x2 lit %d pixels, want 25", got)
	}
	z := Morphology(dot(9, 9), Dilate, square3(), 0, nil, 1)
	if got := count(z); got != 1 {
		t.Errorf("zero iterations lit %d pixels, want 1", got)
	}
	all := Morphology(dot(9, 9), Dilate, square3(), -1, nil, 1)
	if got := count(all); got != 81 {
		t.Errorf("dilate until stable lit %d pixels, want 81", got)
	}
}

func TestMorphologyOpenRemovesDot(t *testing.T) {
	o := Morphology(dot(7, 7), Open, square3(), 1, nil, 1)
	if got := count(o); got != 0 {
		t.Errorf("open left %d pixels, want 0", got)
	}
	c := Morphology(dot(7, 7), Close, square3(), 1, nil, 1)
	if got := count(c); got != 1 {
		t.Errorf("close left %d pixels, want 1", got)
	}
}

func TestMorphologyHitAndMiss(t *testing.T) {
	ks, _ := ParseKernel("3: 0,0,0 0,1,0 0,0,0")
	h := Morphology(dot(5, 5), HitAndMiss, ks, 1, nil, 1)
	if h.At(2, 2, 0) != 1 {
		t.Errorf("isolated dot not matched: %v", h.At(2, 2, 0))
	}
	if count(h) != 1 {
		t.Errorf("matched %d pixels, want 1", count(h))
	}
}

func TestMorphologyThinningRemovesIsolated(t *testing.T) {
	ks, _ := ParseKernel("3: 0,0,0 0,1,0 0,0,0")
	th := Morphology(dot(5, 5), Thinning, ks, 1, nil, 1)
	if count(th) != 0 {
		t.Errorf("thinning left %d pixels", count(th))
	}
}

func TestMorphologyDistance(t *testing.T) {
	src := uniform(7, 1, 1, 1)
	src.Set(0, 0, 0, 0)
	ks, _ := ParseKernel("manhattan:1x10%")
	d := Morphology(src, Distance, ks, 1, nil, 1)
	for x := 0; x < 7; x++ {
		want := math.Min(float64(x)*0.1, 1)
		if math.Abs(d.At(x, 0, 0)-want) > 1e-9 {
			t.Errorf("x=%d: %v, want %v", x, d.At(x, 0, 0), want)
		}
	}
}

func TestMorphologyMask(t *testing.T) {
	src := image.NewFloats(5, 5, 2)
	src.Set(2, 2, 0, 1)
	src.Set(2, 2, 1, 1)
	d := Morphology(src, Dilate, square3(), 1, Mask{false, true}, 1)
	if d.At(1, 1, 0) != 0 {
		t.Error("masked channel dilated")
	}
	if d.At(1, 1, 1) != 1 {
		t.Error("selected channel not dilated")
	}
}
