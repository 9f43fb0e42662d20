package image

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool { return math.Abs(a-b) < epsilon }

func TestAffineApply(t *testing.T) {
	tests := []struct {
		name         string
		m            Affine
		x, y         float64
		wantX, wantY float64
	}{
		{"identity", Identity(), 3, 4, 3, 4},
		{"translate", Translate(10, -2), 3, 4, 13, 2},
		{"scale", Scale(2, 0.5), 3, 4, 6, 2},
		{"rotate 90", Rotate(90), 1, 0, 0, 1},
		{"rotate 180", Rotate(180), 1, 2, -1, -2},
		{"compose", Translate(1, 1).Multiply(Scale(2, 2)), 1, 1, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.Apply(tt.x, tt.y)
			if !approxEqual(x, tt.wantX) || !approxEqual(y, tt.wantY) {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAffineInvert(t *testing.T) {
	m := NewAffine(2, 1, 5, -1, 3, 7)
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() ok = false")
	}
	x, y := inv.Apply(m.Apply(4, -6))
	if !approxEqual(x, 4) || !approxEqual(y, -6) {
		t.Errorf("round trip = (%v, %v), want (4, -6)", x, y)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("singular Invert() ok = true")
	}
}

func TestAffineBounds(t *testing.T) {
	minX, minY, maxX, maxY := Rotate(90).Bounds(4, 2)
	if !approxEqual(minX, -2) || !approxEqual(maxX, 0) || !approxEqual(minY, 0) || !approxEqual(maxY, 4) {
		t.Errorf("Bounds() = (%v, %v, %v, %v), want (-2, 0, 0, 4)", minX, minY, maxX, maxY)
	}
}
