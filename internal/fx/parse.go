package fx

import (
	"math"

	"github.com/pkg/errors"
)

type node func(env *Env) (float64, error)

func (n node) eval(env *Env) (float64, error) { return n(env) }

type parser struct {
	lex lexer
	tok token
	err error
}

func (p *parser) next() {
	if p.err != nil {
		return
	}
	p.tok, p.err = p.lex.scan()
	if p.err != nil {
		p.tok = token{kind: tokEOF}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	if p.err != nil {
		return p.err
	}
	return errors.Errorf("fx: "+format+" at %d", append(args, p.tok.pos)...)
}

func (p *parser) isOp(text string) bool {
	return p.tok.kind == tokOp && p.tok.text == text
}

func (p *parser) expect(text string) error {
	if !p.isOp(text) {
		return p.errorf("expected %q", text)
	}
	p.next()
	return nil
}

func (p *parser) expr() (node, error) {
	cond, err := p.or()
	if err != nil || !p.isOp("?") {
		return cond, err
	}
	p.next()
	a, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	b, err := p.expr()
	if err != nil {
		return nil, err
	}
	return func(env *Env) (float64, error) {
		c, err := cond(env)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return a(env)
		}
		return b(env)
	}, nil
}

type binaryFunc func(a, b float64) (float64, error)

// binaryLevel parses a left-associative chain of the given operators.
func (p *parser) binaryLevel(operand func() (node, error), ops map[string]binaryFunc) (node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp {
		fn, ok := ops[p.tok.text]
		if !ok {
			break
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(env *Env) (float64, error) {
			a, err := l(env)
			if err != nil {
				return 0, err
			}
			b, err := r(env)
			if err != nil {
				return 0, err
			}
			return fn(a, b)
		}
	}
	return left, nil
}

func truth(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

var (
	orOps  = map[string]binaryFunc{"||": func(a, b float64) (float64, error) { return truth(a != 0 || b != 0), nil }}
	andOps = map[string]binaryFunc{"&&": func(a, b float64) (float64, error) { return truth(a != 0 && b != 0), nil }}
	cmpOps = map[string]binaryFunc{
		"==": func(a, b float64) (float64, error) { return truth(a == b), nil },
		"!=": func(a, b float64) (float64, error) { return truth(a != b), nil },
		"<":  func(a, b float64) (float64, error) { return truth(a < b), nil },
		"<=": func(a, b float64) (float64, error) { return truth(a <= b), nil },
		">":  func(a, b float64) (float64, error) { return truth(a > b), nil },
		">=": func(a, b float64) (float64, error) { return truth(a >= b), nil },
	}
	addOps = map[string]binaryFunc{
		"+": func(a, b float64) (float64, error) { return a + b, nil },
		"-": func(a, b float64) (float64, error) { return a - b, nil },
	}
	mulOps = map[string]binaryFunc{
		"*": func(a, b float64) (float64, error) { return a * b, nil },
		"/": func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivideByZero
			}
			return a / b, nil
		},
		"%": func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivideByZero
			}
			return math.Mod(a, b), nil
		},
	}
	shiftOps = map[string]binaryFunc{
		"<<": func(a, b float64) (float64, error) { return float64(int64(a) << uint(max(b, 0))), nil },
		">>": func(a, b float64) (float64, error) { return float64(int64(a) >> uint(max(b, 0))), nil },
	}
)

func (p *parser) or() (node, error)  { return p.binaryLevel(p.and, orOps) }
func (p *parser) and() (node, error) { return p.binaryLevel(p.cmp, andOps) }
func (p *parser) cmp() (node, error) { return p.binaryLevel(p.shift, cmpOps) }
func (p *parser) shift() (node, error) {
	return p.binaryLevel(p.add, shiftOps)
}
func (p *parser) add() (node, error) { return p.binaryLevel(p.mul, addOps) }
func (p *parser) mul() (node, error) { return p.binaryLevel(p.unary, mulOps) }

func (p *parser) unary() (node, error) {
	switch {
	case p.isOp("-"):
		p.next()
		n, err := p.unary()
		if err != nil {
			return nil, err
		}
		return func(env *Env) (float64, error) {
			v, err := n(env)
			return -v, err
		}, nil
	case p.isOp("+"):
		p.next()
		return p.unary()
	case p.isOp("!"):
		p.next()
		n, err := p.unary()
		if err != nil {
			return nil, err
		}
		return func(env *Env) (float64, error) {
			v, err := n(env)
			return truth(v == 0), err
		}, nil
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	base, err := p.primary()
	if err != nil || !p.isOp("^") {
		return base, err
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return func(env *Env) (float64, error) {
		a, err := base(env)
		if err != nil {
			return 0, err
		}
		b, err := exp(env)
		if err != nil {
			return 0, err
		}
		return math.Pow(a, b), nil
	}, nil
}

func constant(v float64) node {
	return func(*Env) (float64, error) { return v, nil }
}

func (p *parser) primary() (node, error) {
	switch p.tok.kind {
	case tokNum:
		v := p.tok.num
		p.next()
		return constant(v), nil
	case tokIdent:
		name := p.tok.text
		p.next()
		return p.ident(name)
	case tokOp:
		if p.isOp("(") {
			p.next()
			n, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return nil, p.errorf("unexpected end of expression")
}

func (p *parser) ident(name string) (node, error) {
	if p.isOp("(") {
		return p.call(name)
	}
	switch name {
	case "pi":
		return constant(math.Pi), nil
	case "e":
		return constant(math.E), nil
	case "quantumrange":
		return constant(1), nil
	case "i":
		return func(env *Env) (float64, error) { return float64(env.I), nil }, nil
	case "j":
		return func(env *Env) (float64, error) { return float64(env.J), nil }, nil
	case "w":
		return func(env *Env) (float64, error) { return float64(env.W), nil }, nil
	case "h":
		return func(env *Env) (float64, error) { return float64(env.H), nil }, nil
	case "r", "g", "b", "a", "c", "m", "y", "k":
		return sample(relative(0, 0), channelOf(name[0])), nil
	case "u":
		ch, err := p.suffix()
		if err != nil {
			return nil, err
		}
		return sample(relative(0, 0), ch), nil
	case "intensity":
		return func(env *Env) (float64, error) {
			px := env.Pixel(env.I, env.J)
			return 0.2126*pick(env, px, 'r') + 0.7152*pick(env, px, 'g') + 0.0722*pick(env, px, 'b'), nil
		}, nil
	case "p":
		return p.neighbor()
	}
	return nil, p.errorf("unknown symbol %q", name)
}

type locator func(env *Env) (node, node, bool)

func relative(dx, dy float64) locator {
	return func(*Env) (node, node, bool) { return constant(dx), constant(dy), true }
}

type channelRef func(env *Env) int

func channelOf(name byte) channelRef {
	return func(env *Env) int {
		if i, ok := env.Names[name]; ok {
			return i
		}
		return -1
	}
}

func current(env *Env) int { return env.Channel }

func pick(env *Env, px []float64, name byte) float64 {
	i, ok := env.Names[name]
	if !ok || i < 0 || i >= len(px) {
		return 0
	}
	return px[i]
}

// suffix parses an optional ".r" style channel selector.
func (p *parser) suffix() (channelRef, error) {
	if !p.isOp(".") {
		return current, nil
	}
	p.next()
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected channel name")
	}
	name := p.tok.text
	p.next()
	switch name {
	case "r", "g", "b", "a", "c", "m", "y", "k":
		return channelOf(name[0]), nil
	case "red", "green", "blue", "alpha", "cyan", "magenta", "yellow", "black":
		if name == "black" {
			return channelOf('k'), nil
		}
		return channelOf(name[0]), nil
	}
	return nil, p.errorf("unknown channel %q", name)
}

func sample(loc locator, ch channelRef) node {
	return func(env *Env) (float64, error) {
		xn, yn, rel := loc(env)
		x, err := xn(env)
		if err != nil {
			return 0, err
		}
		y, err := yn(env)
		if err != nil {
			return 0, err
		}
		px, py := int(math.Floor(x)), int(math.Floor(y))
		if rel {
			px += env.I
			py += env.J
		}
		values := env.Pixel(px, py)
		c := ch(env)
		if c < 0 || c >= len(values) {
			return 0, nil
		}
		return values[c], nil
	}
}

// neighbor parses p[dx,dy] or p{x,y} with an optional channel suffix.
// A bare p is the current pixel.
func (p *parser) neighbor() (node, error) {
	var loc locator = relative(0, 0)
	var closer string
	switch {
	case p.isOp("["):
		closer = "]"
	case p.isOp("{"):
		closer = "}"
	}
	if closer != "" {
		rel := closer == "]"
		p.next()
		xn, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
		yn, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(closer); err != nil {
			return nil, err
		}
		loc = func(*Env) (node, node, bool) { return xn, yn, rel }
	}
	ch, err := p.suffix()
	if err != nil {
		return nil, err
	}
	return sample(loc, ch), nil
}

type function struct {
	arity int
	fn    func(args []float64) (float64, error)
}

func unaryFn(f func(float64) float64) function {
	return function{1, func(a []float64) (float64, error) { return f(a[0]), nil }}
}

var functions = map[string]function{
	"abs":   unaryFn(math.Abs),
	"sin":   unaryFn(math.Sin),
	"cos":   unaryFn(math.Cos),
	"tan":   unaryFn(math.Tan),
	"asin":  unaryFn(math.Asin),
	"acos":  unaryFn(math.Acos),
	"atan":  unaryFn(math.Atan),
	"exp":   unaryFn(math.Exp),
	"sqrt":  unaryFn(math.Sqrt),
	"floor": unaryFn(math.Floor),
	"ceil":  unaryFn(math.Ceil),
	"round": unaryFn(math.Round),
	"int":   unaryFn(math.Trunc),
	"sign": unaryFn(func(v float64) float64 {
		switch {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
		return 0
	}),
	"ln":     {1, logFn(math.Log)},
	"log":    {1, logFn(math.Log10)},
	"logtwo": {1, logFn(math.Log2)},
	"pow":    {2, func(a []float64) (float64, error) { return math.Pow(a[0], a[1]), nil }},
	"atan2":  {2, func(a []float64) (float64, error) { return math.Atan2(a[0], a[1]), nil }},
	"hypot":  {2, func(a []float64) (float64, error) { return math.Hypot(a[0], a[1]), nil }},
	"min":    {2, func(a []float64) (float64, error) { return min(a[0], a[1]), nil }},
	"max":    {2, func(a []float64) (float64, error) { return max(a[0], a[1]), nil }},
	"mod": {2, func(a []float64) (float64, error) {
		if a[1] == 0 {
			return 0, ErrDivideByZero
		}
		return math.Mod(a[0], a[1]), nil
	}},
}

func logFn(f func(float64) float64) func([]float64) (float64, error) {
	return func(a []float64) (float64, error) {
		if a[0] <= 0 {
			return 0, errors.Errorf("fx: logarithm of %v", a[0])
		}
		return f(a[0]), nil
	}
}

func (p *parser) call(name string) (node, error) {
	f, ok := functions[name]
	if !ok {
		return nil, p.errorf("unknown function %q", name)
	}
	p.next()
	var args []node
	if !p.isOp(")") {
		for {
			n, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, n)
			if !p.isOp(",") {
				break
			}
			p.next()
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if len(args) != f.arity {
		return nil, errors.Errorf("fx: %s takes %d arguments, got %d", name, f.arity, len(args))
	}
	return func(env *Env) (float64, error) {
		vals := make([]float64, len(args))
		for i, a := range args {
			v, err := a(env)
			if err != nil {
				return 0, err
			}
			vals[i] = v
		}
		return f.fn(vals)
	}, nil
}
