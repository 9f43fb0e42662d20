package filter

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/pixel/internal/errs"
)

const opKernel = "kernel"

// ParseKernel reads a kernel description. Several kernels may be joined
// with ';'. Each one is either a built-in shape ("disk:5", "ring",
// "euclidean:4,10!") or a literal matrix ("3x3: 0,1,0 1,1,1 0,1,0",
// "3: ...", "3x3+0+0: ..."). In literal matrices "-" and "nan" mark
// elements that morphology ignores.
func ParseKernel(text string) ([]*Kernel, error) {
	var out []*Kernel
	for part := range strings.SplitSeq(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ks, err := parseOne(part)
		if err != nil {
			return nil, err
		}
		out = append(out, ks...)
	}
	if len(out) == 0 {
		return nil, errs.Value(opKernel, "empty kernel %q", text)
	}
	return out, nil
}

func parseOne(s string) ([]*Kernel, error) {
	head, body, hasBody := strings.Cut(s, ":")
	head = strings.TrimSpace(head)
	if head == "" {
		return nil, errs.Value(opKernel, "missing kernel name in %q", s)
	}
	if c := head[0]; (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return builtin(strings.ToLower(head), strings.TrimSpace(body))
	}
	if !hasBody {
		return nil, errs.Value(opKernel, "literal kernel %q has no values", s)
	}
	k, err := literal(head, body)
	if err != nil {
		return nil, err
	}
	return []*Kernel{k}, nil
}

// kernelInt parses an integer matched by a kernel pattern; only overflow
// can fail.
func kernelInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Value(opKernel, "bad kernel number %q", s)
	}
	return v, nil
}

var literalGeometry = regexp.MustCompile(`^(\d+)(?:x(\d+))?(?:([+-]\d+)([+-]\d+))?$`)

func literal(geom, body string) (*Kernel, error) {
	m := literalGeometry.FindStringSubmatch(geom)
	if m == nil {
		return nil, errs.Value(opKernel, "bad kernel geometry %q", geom)
	}
	w, err := kernelInt(m[1])
	if err != nil {
		return nil, err
	}
	h := w
	if m[2] != "" {
		if h, err = kernelInt(m[2]); err != nil {
			return nil, err
		}
	}
	if w < 1 || h < 1 {
		return nil, errs.Value(opKernel, "kernel size %dx%d", w, h)
	}
	k := NewKernel(w, h)
	if m[3] != "" {
		if k.X, err = kernelInt(m[3]); err != nil {
			return nil, err
		}
		if k.Y, err = kernelInt(m[4]); err != nil {
			return nil, err
		}
		if k.X < 0 || k.X >= w || k.Y < 0 || k.Y >= h {
			return nil, errs.Value(opKernel, "origin %+d%+d outside %dx%d kernel", k.X, k.Y, w, h)
		}
	}

	fields := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) != w*h {
		return nil, errs.Value(opKernel, "%dx%d kernel needs %d values, got %d", w, h, w*h, len(fields))
	}
	for i, f := range fields {
		if f == "-" || strings.EqualFold(f, "nan") {
			k.Values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsInf(v, 0) {
			return nil, errs.Value(opKernel, "bad kernel value %q", f)
		}
		k.Values[i] = v
	}
	return k, nil
}

// shapeArgs holds the "rho[xsigma][+X+Y][%!]" arguments of a built-in.
type shapeArgs struct {
	rho, sigma       float64
	hasRho, hasSigma bool
	x, y             int
	hasOffset        bool
	percent, scaled  bool
}

var shapeGeometry = regexp.MustCompile(`^([+-]?[0-9.]*)(?:[x,]([+-]?[0-9.]*))?(?:([+-]\d+)([+-]\d+))?$`)

func parseShapeArgs(s string) (shapeArgs, error) {
	var a shapeArgs
	a.percent = strings.Contains(s, "%")
	a.scaled = strings.Contains(s, "!")
	s = strings.TrimRight(s, "%!@^<>")
	m := shapeGeometry.FindStringSubmatch(s)
	if m == nil {
		return a, errs.Value(opKernel, "bad kernel arguments %q", s)
	}
	var err error
	if m[1] != "" && m[1] != "+" && m[1] != "-" {
		if a.rho, err = strconv.ParseFloat(m[1], 64); err != nil {
			return a, errs.Value(opKernel, "bad kernel argument %q", m[1])
		}
		a.hasRho = true
	}
	if m[2] != "" && m[2] != "+" && m[2] != "-" {
		if a.sigma, err = strconv.ParseFloat(m[2], 64); err != nil {
			return a, errs.Value(opKernel, "bad kernel argument %q", m[2])
		}
		a.hasSigma = true
	}
	if m[3] != "" {
		if a.x, err = kernelInt(m[3]); err != nil {
			return a, err
		}
		if a.y, err = kernelInt(m[4]); err != nil {
			return a, err
		}
		a.hasOffset = true
	}
	return a, nil
}

// radius returns rho when it was given and positive, else def.
func (a shapeArgs) radius(def float64) float64 {
	if a.hasRho && a.rho > 0 {
		return a.rho
	}
	return def
}

func builtin(name, args string) ([]*Kernel, error) {
	a, err := parseShapeArgs(args)
	if err != nil {
		return nil, err
	}

	switch name {
	case "unity":
		k := NewKernel(1, 1)
		k.Values[0] = 1
		return []*Kernel{k}, nil
	case "square":
		return one(shape(a.radius(1), func(u, v, r float64) bool { return true })), nil
	case "diamond":
		return one(shape(a.radius(1), func(u, v, r float64) bool { return math.Abs(u)+math.Abs(v) <= r })), nil
	case "disk":
		return one(shape(a.radius(3.5), func(u, v, r float64) bool { return u*u+v*v <= r*r })), nil
	case "plus":
		return one(shape(a.radius(2), func(u, v, r float64) bool { return u == 0 || v == 0 })), nil
	case "cross":
		return one(shape(a.radius(2), func(u, v, r float64) bool { return math.Abs(u) == math.Abs(v) })), nil
	case "octagon":
		return one(shape(a.radius(2), func(u, v, r float64) bool {
			return math.Abs(u)+math.Abs(v) <= r+math.Floor(r/2)
		})), nil
	case "ring":
		inner, outer := a.radius(2.5), 3.5
		if a.hasSigma && a.sigma > 0 {
			outer = a.sigma
		}
		if inner > outer {
			inner, outer = outer, inner
		}
		return one(shape(outer, func(u, v, r float64) bool {
			d := u*u + v*v
			return d > inner*inner && d <= outer*outer
		})), nil
	case "rectangle":
		w := int(a.radius(3))
		h := w
		if a.hasSigma && a.sigma >= 1 {
			h = int(a.sigma)
		}
		k := NewKernel(w, h)
		for i := range k.Values {
			k.Values[i] = 1
		}
		if a.hasOffset && a.x >= 0 && a.x < w && a.y >= 0 && a.y < h {
			k.X, k.Y = a.x, a.y
		}
		return one(k), nil
	case "edges":
		return rotations(mustLiteral("3", "0,0,0 -,1,- 1,1,1")), nil
	case "corners":
		return rotations(mustLiteral("3", "0,0,- 0,1,1 -,1,-")), nil
	case "euclidean":
		return one(distance(a, func(u, v float64) float64 { return math.Hypot(u, v) })), nil
	case "manhattan":
		return one(distance(a, func(u, v float64) float64 { return math.Abs(u) + math.Abs(v) })), nil
	case "chebyshev":
		return one(distance(a, func(u, v float64) float64 { return max(math.Abs(u), math.Abs(v)) })), nil
	case "octagonal":
		return one(distance(a, func(u, v float64) float64 {
			au, av := math.Abs(u), math.Abs(v)
			return max(au, av) + math.Floor(min(au, av)/2)
		})), nil
	default:
		return nil, errs.Value(opKernel, "unknown kernel %q", name)
	}
}

func one(k *Kernel) []*Kernel { return []*Kernel{k} }

// shape builds a flat kernel of half-width floor(r): 1 where inside holds,
// NaN elsewhere.
func shape(r float64, inside func(u, v, r float64) bool) *Kernel {
	half := int(r)
	n := 2*half + 1
	k := NewKernel(n, n)
	for v := -half; v <= half; v++ {
		for u := -half; u <= half; u++ {
			val := math.NaN()
			if inside(float64(u), float64(v), r) {
				val = 1
			}
			k.Set(u+half, v+half, val)
		}
	}
	return k
}

// distance builds a distance kernel. Each step costs scale/65535 of the
// full range; with '%' scale is a percentage of the range, and with '!'
// it is divided by the radius.
func distance(a shapeArgs, metric func(u, v float64) float64) *Kernel {
	r := a.radius(1)
	scale := 100.0
	if a.hasSigma && a.sigma > 0 {
		scale = a.sigma
	}
	step := scale / 65535
	if a.percent {
		step = scale / 100
	}
	if a.scaled {
		step /= r
	}
	half := int(r)
	n := 2*half + 1
	k := NewKernel(n, n)
	for v := -half; v <= half; v++ {
		for u := -half; u <= half; u++ {
			k.Set(u+half, v+half, metric(float64(u), float64(v))*step)
		}
	}
	return k
}

func rotations(k *Kernel) []*Kernel {
	out := []*Kernel{k}
	for range 3 {
		k = k.Rotate90()
		out = append(out, k)
	}
	return out
}

func mustLiteral(geom, body string) *Kernel {
	k, err := literal(geom, body)
	if err != nil {
		panic(err)
	}
	return k
}
