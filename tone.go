package pixel

import (
	"math"

	"github.com/pkg/errors"

	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/filter"
	"github.com/gogpu/pixel/internal/parallel"
)

// mapSamples applies fn to every selected sample. fn sees the sample and
// its slot within the pixel.
func (im *Image) mapSamples(mask filter.Mask, fn func(v float64, slot int) float64) {
	f := im.floats()
	c := f.C
	parallel.Rows(im.workers(), f.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := f.Row(y)
			for i, v := range row {
				if s := i % c; mask.Has(s) {
					row[i] = fn(v, s)
				}
			}
		}
	})
	im.commit(f)
}

// integerQuantum is the integer scale used by bitwise operators; float
// storage behaves like 16-bit.
func (im *Image) integerQuantum() float64 {
	if q := im.buf.Depth().Quantum(); q > 1 {
		return q
	}
	return 65535
}

// Level remaps the selected channels so black maps to 0 and white to 1,
// then applies gamma. Black and white are fractions of the full range;
// white below black inverts the ramp.
func (im *Image) Level(black, white, gamma float64, ch Channels) error {
	const op = "level"
	if err := errs.Numbers(op, "black", black, "white", white, "gamma", gamma); err != nil {
		return err
	}
	if white == black {
		return errs.Value(op, "black and white points coincide at %v", black)
	}
	if gamma <= 0 {
		return errs.Value(op, "gamma must be positive, got %v", gamma)
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	inv := 1 / gamma
	im.mapSamples(mask, func(v float64, _ int) float64 {
		return math.Pow(clamp01((v-black)/(white-black)), inv)
	})
	return nil
}

// Gamma applies v^(1/value) to the selected channels.
func (im *Image) Gamma(value float64, ch Channels) error {
	const op = "gamma"
	if err := errs.Number(op, "value", value); err != nil {
		return err
	}
	if value <= 0 {
		return errs.Value(op, "gamma must be positive, got %v", value)
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	inv := 1 / value
	im.mapSamples(mask, func(v float64, _ int) float64 { return math.Pow(v, inv) })
	return nil
}

// Threshold sets samples above fraction of the full range to the maximum
// and every other sample to zero.
func (im *Image) Threshold(fraction float64, ch Channels) error {
	const op = "threshold"
	if err := errs.Number(op, "fraction", fraction); err != nil {
		return err
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	im.mapSamples(mask, func(v float64, _ int) float64 {
		if v > fraction {
			return 1
		}
		return 0
	})
	return nil
}

// WhiteThreshold raises every color sample above the matching sample of c
// to the maximum.
func (im *Image) WhiteThreshold(c Color) {
	limit := im.model.samples(c)
	mask := im.model.defaultMask()
	im.mapSamples(mask, func(v float64, s int) float64 {
		if v > limit[s] {
			return 1
		}
		return v
	})
}

// BlackThreshold drops every color sample below the matching sample of c
// to zero.
func (im *Image) BlackThreshold(c Color) {
	limit := im.model.samples(c)
	mask := im.model.defaultMask()
	im.mapSamples(mask, func(v float64, s int) float64 {
		if v < limit[s] {
			return 0
		}
		return v
	})
}

// Negate inverts the selected channels. With grayOnly, only pixels whose
// color samples are all equal are touched.
func (im *Image) Negate(grayOnly bool, ch Channels) error {
	mask, err := im.model.mask("negate", ch)
	if err != nil {
		return err
	}
	if !grayOnly || im.model.IsGray() {
		im.mapSamples(mask, func(v float64, _ int) float64 { return 1 - v })
		return nil
	}
	f := im.floats()
	alpha := im.model.alphaIndex()
	mapPixels(im.workers(), f, func(px []float64) {
		for i, v := range px {
			if i != alpha && v != px[0] {
				return
			}
		}
		for i := range px {
			if mask.Has(i) {
				px[i] = 1 - px[i]
			}
		}
	})
	im.commit(f)
	return nil
}

// EvaluateOperator is a pointwise arithmetic operator for Evaluate.
type EvaluateOperator uint8

// Evaluate operators.
const (
	EvaluateSet EvaluateOperator = iota
	EvaluateAdd
	EvaluateSubtract
	EvaluateMultiply
	EvaluateDivide
	EvaluateAbs
	EvaluateMax
	EvaluateMin
	EvaluatePow
	EvaluateLog
	EvaluateExp
	EvaluateSine
	EvaluateCosine
	EvaluateThreshold
	EvaluateThresholdBlack
	EvaluateThresholdWhite
	EvaluateAnd
	EvaluateOr
	EvaluateXor
	EvaluateLeftShift
	EvaluateRightShift
	EvaluateAddModulus
	EvaluateInverseLog
	evaluateCount
)

var evaluateNames = []string{
	"set", "add", "subtract", "multiply", "divide", "abs", "max", "min",
	"pow", "log", "exp", "sine", "cosine", "threshold", "threshold_black",
	"threshold_white", "and", "or", "xor", "left_shift", "right_shift",
	"add_modulus", "inverse_log",
}

var evaluateAliases = map[string]EvaluateOperator{
	"sin":        EvaluateSine,
	"cos":        EvaluateCosine,
	"power":      EvaluatePow,
	"maximum":    EvaluateMax,
	"minimum":    EvaluateMin,
	"absolute":   EvaluateAbs,
	"leftshift":  EvaluateLeftShift,
	"rightshift": EvaluateRightShift,
}

// String returns the operator name.
func (e EvaluateOperator) String() string { return enumName(evaluateNames, int(e)) }

// ParseEvaluateOperator reads an operator name such as "add" or
// "threshold_white".
func ParseEvaluateOperator(name string) (EvaluateOperator, error) {
	return parseEnum("evaluate", "operator", name, evaluateNames, evaluateAliases)
}

// Evaluate applies e with value to the selected channels. For set, add,
// subtract, max, min, the thresholds and add_modulus, value is a fraction
// of the full range; the other operators take value literally (multiply
// by 2, shift by 3 bits).
func (im *Image) Evaluate(e EvaluateOperator, value float64, ch Channels) error {
	const op = "evaluate"
	if e >= evaluateCount {
		return errs.Value(op, "unknown operator %d", e)
	}
	if err := errs.Number(op, "value", value); err != nil {
		return err
	}
	switch e {
	case EvaluateDivide:
		if value == 0 {
			return errs.Failed(op, errors.New("division by zero"))
		}
	case EvaluateLog, EvaluateInverseLog:
		if value <= 0 {
			return errs.Value(op, "%s needs a positive value, got %v", e, value)
		}
	case EvaluateLeftShift, EvaluateRightShift:
		if value < 0 {
			return errs.Value(op, "shift count must not be negative, got %v", value)
		}
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	fn := evaluator(e, value, im.integerQuantum())
	im.mapSamples(mask, func(v float64, _ int) float64 { return fn(v) })
	return nil
}

func evaluator(e EvaluateOperator, value, q float64) func(float64) float64 {
	bits := func(v float64) uint64 { return uint64(clamp01(v)*q + 0.5) }
	arg := uint64(math.Max(value, 0)*q + 0.5)
	shift := uint(value)
	switch e {
	case EvaluateSet:
		return func(float64) float64 { return value }
	case EvaluateAdd:
		return func(v float64) float64 { return v + value }
	case EvaluateSubtract:
		return func(v float64) float64 { return v - value }
	case EvaluateMultiply:
		return func(v float64) float64 { return v * value }
	case EvaluateDivide:
		return func(v float64) float64 { return v / value }
	case EvaluateAbs:
		return func(v float64) float64 { return math.Abs(v + value) }
	case EvaluateMax:
		return func(v float64) float64 { return math.Max(v, value) }
	case EvaluateMin:
		return func(v float64) float64 { return math.Min(v, value) }
	case EvaluatePow:
		return func(v float64) float64 { return math.Pow(v, value) }
	case EvaluateLog:
		return func(v float64) float64 { return math.Log(value*v+1) / math.Log(value+1) }
	case EvaluateExp:
		return func(v float64) float64 { return math.Exp(value * v) }
	case EvaluateSine:
		return func(v float64) float64 { return 0.5 * (math.Sin(2*math.Pi*value*v) + 1) }
	case EvaluateCosine:
		return func(v float64) float64 { return 0.5 * (math.Cos(2*math.Pi*value*v) + 1) }
	case EvaluateThreshold:
		return func(v float64) float64 {
			if v > value {
				return 1
			}
			return 0
		}
	case EvaluateThresholdBlack:
		return func(v float64) float64 {
			if v < value {
				return 0
			}
			return v
		}
	case EvaluateThresholdWhite:
		return func(v float64) float64 {
			if v > value {
				return 1
			}
			return v
		}
	case EvaluateAnd:
		return func(v float64) float64 { return float64(bits(v)&arg) / q }
	case EvaluateOr:
		return func(v float64) float64 { return float64(bits(v)|arg) / q }
	case EvaluateXor:
		return func(v float64) float64 { return float64(bits(v)^arg) / q }
	case EvaluateLeftShift:
		return func(v float64) float64 { return float64(bits(v)<<shift) / q }
	case EvaluateRightShift:
		return func(v float64) float64 { return float64(bits(v)>>shift) / q }
	case EvaluateAddModulus:
		return func(v float64) float64 {
			r := math.Mod(v+value, 1)
			if r < 0 {
				r++
			}
			return r
		}
	default: // EvaluateInverseLog
		return func(v float64) float64 { return (math.Pow(value+1, v) - 1) / value }
	}
}

// FunctionKind selects the curve applied by Function.
type FunctionKind uint8

// Function curves.
const (
	FunctionPolynomial FunctionKind = iota
	FunctionSinusoid
	FunctionArcsin
	FunctionArctan
	functionCount
)

var functionNames = []string{"polynomial", "sinusoid", "arcsin", "arctan"}

// String returns the curve name.
func (k FunctionKind) String() string { return enumName(functionNames, int(k)) }

// ParseFunctionKind reads a curve name.
func ParseFunctionKind(name string) (FunctionKind, error) {
	return parseEnum[FunctionKind]("function", "function", name, functionNames, nil)
}

// functionDefaults holds the trailing arguments of each curve that callers
// may omit.
var functionDefaults = [functionCount][]float64{
	FunctionSinusoid: {1, 0, 0.5, 0.5},
	FunctionArcsin:   {1, 0.5, 1, 0.5},
	FunctionArctan:   {1, 0.5, 1, 0.5},
}

// Function maps the selected channels through a curve:
//
//	polynomial  c0*v^n + ... + cn (coefficients highest order first)
//	sinusoid    frequency, phase (degrees), amplitude, bias
//	arcsin      width, center, range, bias
//	arctan      slope, center, range, bias
func (im *Image) Function(kind FunctionKind, args []float64, ch Channels) error {
	const op = "function"
	if kind >= functionCount {
		return errs.Value(op, "unknown function %d", kind)
	}
	for _, a := range args {
		if err := errs.Number(op, "argument", a); err != nil {
			return err
		}
	}
	if len(args) == 0 {
		return errs.Value(op, "%s needs at least one argument", kind)
	}
	var p []float64
	if kind != FunctionPolynomial {
		d := functionDefaults[kind]
		if len(args) > len(d) {
			return errs.Value(op, "%s takes at most %d arguments, got %d", kind, len(d), len(args))
		}
		p = append(append([]float64(nil), args...), d[len(args):]...)
		if kind == FunctionArcsin && p[0] == 0 {
			return errs.Value(op, "arcsin width must not be zero")
		}
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}

	var fn func(float64) float64
	switch kind {
	case FunctionPolynomial:
		fn = func(v float64) float64 {
			r := 0.0
			for _, c := range args {
				r = r*v + c
			}
			return r
		}
	case FunctionSinusoid:
		fn = func(v float64) float64 {
			return p[2]*math.Sin(2*math.Pi*(p[0]*v+p[1]/360)) + p[3]
		}
	case FunctionArcsin:
		fn = func(v float64) float64 {
			x := 2 / p[0] * (v - p[1])
			switch {
			case x <= -1:
				return p[3] - p[2]/2
			case x >= 1:
				return p[3] + p[2]/2
			}
			return p[2]/math.Pi*math.Asin(x) + p[3]
		}
	case FunctionArctan:
		fn = func(v float64) float64 {
			return p[2]/math.Pi*math.Atan(p[0]*math.Pi*(v-p[1])) + p[3]
		}
	}
	im.mapSamples(mask, func(v float64, _ int) float64 { return fn(v) })
	return nil
}
