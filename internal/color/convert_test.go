package color

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestSRGBToLinearEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"threshold", 0.04045, 0.04045 / 12.92},
		{"mid gray", 0.5, math.Pow((0.5+0.055)/1.055, 2.4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SRGBToLinear(tt.input); !near(got, tt.want, 1e-12) {
				t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTripSRGBLinear(t *testing.T) {
	for i := 0; i <= 255; i++ {
		s := float64(i) / 255
		if got := LinearToSRGB(SRGBToLinear(s)); !near(got, s, 1e-9) {
			t.Errorf("round trip %v = %v", s, got)
		}
	}
}

func TestHSLRoundTrip(t *testing.T) {
	colors := [][3]float64{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.2, 0.4, 0.6},
		{0.9, 0.9, 0.9}, {0, 0, 0}, {0.75, 0.1, 0.5},
	}
	for _, c := range colors {
		h, s, l := RGBToHSL(c[0], c[1], c[2])
		r, g, b := HSLToRGB(h, s, l)
		if !near(r, c[0], 1e-9) || !near(g, c[1], 1e-9) || !near(b, c[2], 1e-9) {
			t.Errorf("HSL round trip %v = (%v, %v, %v)", c, r, g, b)
		}
		h, s, v := RGBToHSB(c[0], c[1], c[2])
		r, g, b = HSBToRGB(h, s, v)
		if !near(r, c[0], 1e-9) || !near(g, c[1], 1e-9) || !near(b, c[2], 1e-9) {
			t.Errorf("HSB round trip %v = (%v, %v, %v)", c, r, g, b)
		}
	}
}

func TestHSLKnownValues(t *testing.T) {
	h, s, l := RGBToHSL(0, 0, 1)
	if !near(h, 2.0/3, 1e-12) || s != 1 || l != 0.5 {
		t.Errorf("RGBToHSL(blue) = (%v, %v, %v)", h, s, l)
	}
}

func TestCMYK(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b    float64
		c, m, y, k float64
	}{
		{"white", 1, 1, 1, 0, 0, 0, 0},
		{"black", 0, 0, 0, 0, 0, 0, 1},
		{"red", 1, 0, 0, 0, 1, 1, 0},
		{"dark cyan", 0, 0.5, 0.5, 1, 0, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m, y, k := RGBToCMYK(tt.r, tt.g, tt.b)
			if !near(c, tt.c, 1e-12) || !near(m, tt.m, 1e-12) || !near(y, tt.y, 1e-12) || !near(k, tt.k, 1e-12) {
				t.Errorf("RGBToCMYK = (%v, %v, %v, %v)", c, m, y, k)
			}
			r, g, b := CMYKToRGB(c, m, y, k)
			if !near(r, tt.r, 1e-12) || !near(g, tt.g, 1e-12) || !near(b, tt.b, 1e-12) {
				t.Errorf("CMYKToRGB = (%v, %v, %v)", r, g, b)
			}
		})
	}
}

func TestLuma(t *testing.T) {
	if got := Luma(1, 1, 1); !near(got, 1, 1e-9) {
		t.Errorf("Luma(white) = %v", got)
	}
	if got := Luma(0, 1, 0); got != LumaG {
		t.Errorf("Luma(green) = %v", got)
	}
}
