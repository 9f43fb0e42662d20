package pixel

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// DistortMethod selects the coordinate mapping of Distort.
type DistortMethod uint8

// Distortion methods.
const (
	DistortAffine DistortMethod = iota
	DistortAffineProjection
	DistortPerspective
	DistortPerspectiveProjection
	DistortScaleRotateTranslate
	DistortArc
	distortCount
)

var distortNames = []string{
	"affine", "affine_projection", "perspective", "perspective_projection",
	"scale_rotate_translate", "arc",
}

var distortAliases = map[string]DistortMethod{
	"srt": DistortScaleRotateTranslate,
}

// String returns the method name.
func (d DistortMethod) String() string { return enumName(distortNames, int(d)) }

// ParseDistortMethod reads a distortion method name.
func ParseDistortMethod(name string) (DistortMethod, error) {
	return parseEnum("distort", "distortion method", name, distortNames, distortAliases)
}

// sampler returns a sampler over f that resolves reads outside the image
// by the image's virtual pixel method.
func (im *Image) sampler(f *pimage.Floats, interp pimage.Interp) *pimage.Sampler {
	s := &pimage.Sampler{Src: f, Interp: interp, Edge: pimage.EdgeConstant}
	switch im.meta.virtualPixel {
	case VirtualEdge:
		s.Edge = pimage.EdgeClamp
	case VirtualTile:
		s.Edge = pimage.EdgeTile
	case VirtualMirror:
		s.Edge = pimage.EdgeMirror
	case VirtualTransparent:
		s.Background = im.model.samples(Transparent)
	case VirtualBlack:
		s.Background = im.model.samples(Black)
	case VirtualWhite:
		s.Background = im.model.samples(White)
	default:
		s.Background = im.model.samples(im.meta.background)
	}
	return s
}

// inverseMap maps a destination position to its source position. It
// reports false where the mapping is undefined, such as beyond the
// horizon of a perspective.
type inverseMap func(x, y float64) (float64, float64, bool)

// distortion is a resolved mapping plus the output viewport.
type distortion struct {
	fn         inverseMap
	x, y, w, h float64
}

// Distort remaps the image through method with args. Reads outside the
// source follow the virtual pixel method; undefined positions take the
// matte color. The output keeps the image size except for arc, which
// fits the canvas to the result.
//
// Arguments per method:
//
//	affine                  u,v,x,y control pairs, at least one
//	affine_projection       sx,rx,ry,sy,tx,ty
//	perspective             u,v,x,y control pairs, at least four
//	perspective_projection  sx,ry,tx,rx,sy,ty,px,py
//	scale_rotate_translate  [X,Y] [scale[,scaleY]] angle [newX,newY]
//	arc                     angle [rotate [top radius [bottom radius]]]
func (im *Image) Distort(method DistortMethod, args []float64) error {
	const op = "distort"
	if method >= distortCount {
		return errs.Value(op, "unknown distortion method %d", method)
	}
	for _, a := range args {
		if err := errs.Number(op, "argument", a); err != nil {
			return err
		}
	}
	w, h := float64(im.Width()), float64(im.Height())
	var (
		d   distortion
		err error
	)
	switch method {
	case DistortAffine:
		d.fn, err = affineFromPairs(op, args)
	case DistortAffineProjection:
		d.fn, err = affineProjection(op, args)
	case DistortPerspective:
		d.fn, err = perspectiveFromPairs(op, args)
	case DistortPerspectiveProjection:
		d.fn, err = perspectiveProjection(op, args)
	case DistortScaleRotateTranslate:
		d.fn, err = scaleRotateTranslate(op, args, w, h)
	case DistortArc:
		d, err = arc(op, args, w, h)
	}
	if err != nil {
		return err
	}
	if method != DistortArc {
		d.w, d.h = w, h
	}

	s := im.sampler(im.floats(), pimage.InterpBilinear)
	matte := im.model.samples(im.meta.matte)
	ow, oh := int(math.Ceil(d.w-1e-9)), int(math.Ceil(d.h-1e-9))
	dst := pimage.NewFloats(ow, oh, s.Src.C)
	parallel.Rows(im.workers(), oh, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range ow {
				sx, sy, ok := d.fn(float64(x)+0.5+d.x, float64(y)+0.5+d.y)
				if !ok {
					copy(dst.Pixel(x, y), matte)
					continue
				}
				s.At(sx, sy, dst.Pixel(x, y))
			}
		}
	})
	Logger().Debug("pixel: distorted", "method", method.String(), "size", [2]int{ow, oh})
	im.store(dst)
	return nil
}

// controlPairs splits u,v,x,y quadruples, requiring at least n of them.
func controlPairs(op string, method DistortMethod, args []float64, n int) ([][4]float64, error) {
	if len(args) == 0 || len(args)%4 != 0 || len(args)/4 < n {
		return nil, errs.Value(op, "%s needs at least %d u,v,x,y control pairs, got %d values", method, n, len(args))
	}
	pairs := make([][4]float64, len(args)/4)
	for i := range pairs {
		copy(pairs[i][:], args[i*4:])
	}
	return pairs, nil
}

// leastSquares solves a*x = b, exactly or in the least squares sense.
func leastSquares(op string, a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, errs.Value(op, "control points are degenerate: %v", err)
	}
	return x.RawVector().Data, nil
}

// affineFromPairs fits the destination to source map: one pair
// translates, two pairs scale, rotate and translate, three or more solve
// the full affine map.
func affineFromPairs(op string, args []float64) (inverseMap, error) {
	pairs, err := controlPairs(op, DistortAffine, args, 1)
	if err != nil {
		return nil, err
	}
	switch len(pairs) {
	case 1:
		p := pairs[0]
		du, dv := p[0]-p[2], p[1]-p[3]
		return func(x, y float64) (float64, float64, bool) { return x + du, y + dv, true }, nil
	case 2:
		// u = a*x - b*y + c, v = b*x + a*y + d
		a := mat.NewDense(4, 4, nil)
		b := mat.NewVecDense(4, nil)
		for i, p := range pairs {
			a.SetRow(2*i, []float64{p[2], -p[3], 1, 0})
			a.SetRow(2*i+1, []float64{p[3], p[2], 0, 1})
			b.SetVec(2*i, p[0])
			b.SetVec(2*i+1, p[1])
		}
		c, err := leastSquares(op, a, b)
		if err != nil {
			return nil, err
		}
		m := pimage.NewAffine(c[0], -c[1], c[2], c[1], c[0], c[3])
		return affineMap(m), nil
	}
	a := mat.NewDense(2*len(pairs), 6, nil)
	b := mat.NewVecDense(2*len(pairs), nil)
	for i, p := range pairs {
		a.SetRow(2*i, []float64{p[2], p[3], 1, 0, 0, 0})
		a.SetRow(2*i+1, []float64{0, 0, 0, p[2], p[3], 1})
		b.SetVec(2*i, p[0])
		b.SetVec(2*i+1, p[1])
	}
	c, err := leastSquares(op, a, b)
	if err != nil {
		return nil, err
	}
	return affineMap(pimage.NewAffine(c[0], c[1], c[2], c[3], c[4], c[5])), nil
}

func affineMap(m pimage.Affine) inverseMap {
	return func(x, y float64) (float64, float64, bool) {
		u, v := m.Apply(x, y)
		return u, v, true
	}
}

// affineProjection inverts the forward map x' = sx*u + ry*v + tx,
// y' = rx*u + sy*v + ty.
func affineProjection(op string, args []float64) (inverseMap, error) {
	if len(args) != 6 {
		return nil, errs.Value(op, "affine_projection takes 6 coefficients, got %d", len(args))
	}
	fwd := pimage.NewAffine(args[0], args[2], args[4], args[1], args[3], args[5])
	inv, ok := fwd.Invert()
	if !ok {
		return nil, errs.Value(op, "affine projection is singular")
	}
	return affineMap(inv), nil
}

// projective maps through the 3x3 matrix m, undefined where the
// homogeneous divisor changes sign from sign.
func projective(m *mat.Dense, sign float64) inverseMap {
	return func(x, y float64) (float64, float64, bool) {
		w := m.At(2, 0)*x + m.At(2, 1)*y + m.At(2, 2)
		if w*sign <= 0 {
			return 0, 0, false
		}
		u := (m.At(0, 0)*x + m.At(0, 1)*y + m.At(0, 2)) / w
		v := (m.At(1, 0)*x + m.At(1, 1)*y + m.At(1, 2)) / w
		return u, v, true
	}
}

// perspectiveFromPairs fits the eight coefficient destination to source
// homography through four or more control pairs.
func perspectiveFromPairs(op string, args []float64) (inverseMap, error) {
	pairs, err := controlPairs(op, DistortPerspective, args, 4)
	if err != nil {
		return nil, err
	}
	a := mat.NewDense(2*len(pairs), 8, nil)
	b := mat.NewVecDense(2*len(pairs), nil)
	for i, p := range pairs {
		u, v, x, y := p[0], p[1], p[2], p[3]
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}
	c, err := leastSquares(op, a, b)
	if err != nil {
		return nil, err
	}
	m := mat.NewDense(3, 3, append(c, 1))
	// The control points lie on the valid side of the horizon.
	p := pairs[0]
	sign := m.At(2, 0)*p[2] + m.At(2, 1)*p[3] + 1
	return projective(m, math.Copysign(1, sign)), nil
}

// perspectiveProjection inverts the forward homography given as
// sx,ry,tx,rx,sy,ty,px,py.
func perspectiveProjection(op string, args []float64) (inverseMap, error) {
	if len(args) != 8 {
		return nil, errs.Value(op, "perspective_projection takes 8 coefficients, got %d", len(args))
	}
	fwd := mat.NewDense(3, 3, append(append([]float64(nil), args...), 1))
	var inv mat.Dense
	if err := inv.Inverse(fwd); err != nil {
		return nil, errs.Value(op, "perspective projection is singular: %v", err)
	}
	// Destination points in front of the viewer have a positive divisor
	// under the forward map, so their inverse divisor is positive too.
	return projective(&inv, 1), nil
}

// scaleRotateTranslate builds the inverse of a rotation and scaling about
// (X, Y) followed by a move to (newX, newY).
func scaleRotateTranslate(op string, args []float64, w, h float64) (inverseMap, error) {
	cx, cy := w/2, h/2
	sx, sy := 1.0, 1.0
	var angle float64
	nx, ny := math.NaN(), math.NaN()
	switch len(args) {
	case 1:
		angle = args[0]
	case 2:
		sx, sy, angle = args[0], args[0], args[1]
	case 3:
		cx, cy, angle = args[0], args[1], args[2]
	case 4:
		cx, cy, sx, sy, angle = args[0], args[1], args[2], args[2], args[3]
	case 5:
		cx, cy, sx, sy, angle = args[0], args[1], args[2], args[3], args[4]
	case 6:
		cx, cy, sx, sy, angle, nx, ny = args[0], args[1], args[2], args[2], args[3], args[4], args[5]
	case 7:
		cx, cy, sx, sy, angle, nx, ny = args[0], args[1], args[2], args[3], args[4], args[5], args[6]
	default:
		return nil, errs.Value(op, "scale_rotate_translate takes 1 to 7 arguments, got %d", len(args))
	}
	if sx == 0 || sy == 0 {
		return nil, errs.Value(op, "scale must not be zero")
	}
	if math.IsNaN(nx) {
		nx, ny = cx, cy
	}
	fwd := pimage.Translate(nx, ny).
		Multiply(pimage.Rotate(angle)).
		Multiply(pimage.Scale(sx, sy)).
		Multiply(pimage.Translate(-cx, -cy))
	inv, ok := fwd.Invert()
	if !ok {
		return nil, errs.Value(op, "scale_rotate_translate arguments give a singular transform")
	}
	return affineMap(inv), nil
}

// arc bends the image into a circular arc centered on the origin. The
// middle of the top edge sits at 12 o'clock, turned by rotate.
func arc(op string, args []float64, w, h float64) (distortion, error) {
	if len(args) < 1 || len(args) > 4 {
		return distortion{}, errs.Value(op, "arc takes 1 to 4 arguments, got %d", len(args))
	}
	span := args[0] * math.Pi / 180
	if span == 0 || math.Abs(args[0]) > 360 {
		return distortion{}, errs.Value(op, "arc angle %v must be non-zero and at most 360 degrees", args[0])
	}
	rot := 0.0
	if len(args) > 1 {
		rot = args[1] * math.Pi / 180
	}
	top := w/math.Abs(span) + h/2
	thick := h
	if len(args) > 2 {
		thick = h * args[2] / top
		top = args[2]
	}
	if len(args) > 3 {
		thick = args[2] - args[3]
	}
	if top <= 0 || thick <= 0 || thick > top {
		return distortion{}, errs.Value(op, "arc radii must satisfy top > bottom >= 0")
	}
	start := -math.Pi/2 + rot - span/2

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	const steps = 360
	for i := 0; i <= steps; i++ {
		a := start + span*float64(i)/steps
		sin, cos := math.Sincos(a)
		for _, r := range []float64{top, top - thick} {
			minX, maxX = math.Min(minX, r*cos), math.Max(maxX, r*cos)
			minY, maxY = math.Min(minY, r*sin), math.Max(maxY, r*sin)
		}
	}
	minX, minY = math.Floor(minX), math.Floor(minY)
	fn := func(x, y float64) (float64, float64, bool) {
		a := math.Atan2(y, x) - start
		if span > 0 {
			a = math.Mod(a, 2*math.Pi)
			if a < 0 {
				a += 2 * math.Pi
			}
		} else {
			a = math.Mod(a, 2*math.Pi)
			if a > 0 {
				a -= 2 * math.Pi
			}
		}
		// Center the unused part of the circle on the seam.
		if rest := 2*math.Pi - math.Abs(span); math.Abs(a) > math.Abs(span)+rest/2 {
			a -= math.Copysign(2*math.Pi, span)
		}
		u := a / span * w
		v := (top - math.Hypot(x, y)) / thick * h
		return u, v, true
	}
	return distortion{fn: fn, x: minX, y: minY, w: math.Ceil(maxX) - minX, h: math.Ceil(maxY) - minY}, nil
}

// Implode pulls pixels toward the center by amount; negative amounts push
// them outward. Only the largest centered circle is affected.
func (im *Image) Implode(amount float64) error {
	const op = "implode"
	if err := errs.Number(op, "amount", amount); err != nil {
		return err
	}
	w, h := float64(im.Width()), float64(im.Height())
	cx, cy := w/2, h/2
	radius, xs, ys := cx, 1.0, 1.0
	switch {
	case w > h:
		ys = w / h
	case w < h:
		xs = h / w
		radius = cy
	}
	s := im.sampler(im.floats(), pimage.InterpBilinear)
	im.store(resample(s, im.Width(), im.Height(), im.workers(), func(x, y float64) (float64, float64) {
		dx, dy := xs*(x-cx), ys*(y-cy)
		d := dx*dx + dy*dy
		if d >= radius*radius {
			return x, y
		}
		f := 1.0
		if d > 0 {
			f = math.Pow(math.Sin(math.Pi*math.Sqrt(d)/radius/2), -amount)
		}
		return f*dx/xs + cx, f*dy/ys + cy
	}))
	return nil
}

// Wave shifts each column vertically along a sine wave. The canvas grows
// by twice the amplitude; uncovered pixels take the background color.
func (im *Image) Wave(amplitude, wavelength float64, interp Interpolation) error {
	const op = "wave"
	if err := errs.Numbers(op, "amplitude", amplitude, "wavelength", wavelength); err != nil {
		return err
	}
	if wavelength <= 0 {
		return errs.Value(op, "wavelength must be positive, got %v", wavelength)
	}
	if interp >= interpolationCount {
		return errs.Value(op, "unknown interpolation method %d", interp)
	}
	w := im.Width()
	h := im.Height() + int(2*math.Abs(amplitude))
	shift := make([]float64, w)
	for x := range shift {
		shift[x] = math.Abs(amplitude) + amplitude*math.Sin(2*math.Pi*float64(x)/wavelength)
	}
	s := &pimage.Sampler{
		Src:        im.floats(),
		Interp:     interp.interp(),
		Edge:       pimage.EdgeConstant,
		Background: im.model.samples(im.meta.background),
	}
	im.store(resample(s, w, h, im.workers(), func(x, y float64) (float64, float64) {
		return x, y - shift[int(x)]
	}))
	return nil
}
