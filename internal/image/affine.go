package image

import "math"

// Affine is a 2D affine map:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Affine struct {
	a, b, c float64
	d, e, f float64
}

// NewAffine builds a map from its six coefficients in row order.
func NewAffine(a, b, c, d, e, f float64) Affine {
	return Affine{a: a, b: b, c: c, d: d, e: e, f: f}
}

// Identity returns the identity map.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Scale returns a scaling about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{a: sx, e: sy}
}

// Rotate returns a rotation by degrees about the origin. With y growing
// downwards, positive angles turn clockwise on screen.
func Rotate(degrees float64) Affine {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Affine{a: cos, b: -sin, d: sin, e: cos}
}

// Multiply returns a*other: other is applied first.
func (a Affine) Multiply(other Affine) Affine {
	return Affine{
		a: a.a*other.a + a.b*other.d,
		b: a.a*other.b + a.b*other.e,
		c: a.a*other.c + a.b*other.f + a.c,
		d: a.d*other.a + a.e*other.d,
		e: a.d*other.b + a.e*other.e,
		f: a.d*other.c + a.e*other.f + a.f,
	}
}

// Invert returns the inverse map, or false if a is singular.
func (a Affine) Invert() (Affine, bool) {
	det := a.a*a.e - a.b*a.d
	if math.Abs(det) < 1e-12 {
		return Affine{}, false
	}
	inv := 1.0 / det
	return Affine{
		a: a.e * inv,
		b: -a.b * inv,
		c: (a.b*a.f - a.c*a.e) * inv,
		d: -a.d * inv,
		e: a.a * inv,
		f: (a.c*a.d - a.a*a.f) * inv,
	}, true
}

// Apply maps (x, y).
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.a*x + a.b*y + a.c, a.d*x + a.e*y + a.f
}

// Bounds maps the rectangle (0,0)-(w,h) and returns the bounding box of the
// result as (minX, minY, maxX, maxY).
func (a Affine) Bounds(w, h float64) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := a.Apply(p[0], p[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return minX, minY, maxX, maxY
}
