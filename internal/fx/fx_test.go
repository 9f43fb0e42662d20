package fx

import (
	"errors"
	"math"
	"testing"
)

// grid is a 3x2 RGB test image: pixel (x, y) = (x/2, y, 0.25).
func grid() *Env {
	return &Env{
		W: 3, H: 2,
		Names: map[byte]int{'r': 0, 'g': 1, 'b': 2, 'a': -1},
		Pixel: func(x, y int) []float64 {
			x = min(max(x, 0), 2)
			y = min(max(y, 0), 1)
			return []float64{float64(x) / 2, float64(y), 0.25}
		},
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		i, j int
		ch   int
		want float64
	}{
		{"0", 0, 0, 0, 0},
		{"0.5019", 0, 0, 2, 0.5019},
		{"1 + 2 * 3", 0, 0, 0, 7},
		{"(1 + 2) * 3", 0, 0, 0, 9},
		{"2 ^ 3 ^ 2", 0, 0, 0, 512},
		{"-2 ^ 2", 0, 0, 0, -4},
		{"7 % 4", 0, 0, 0, 3},
		{"1 < 2 && 3 >= 3", 0, 0, 0, 1},
		{"0 || !1", 0, 0, 0, 0},
		{"i > 0 ? 1 : 0.5", 1, 0, 0, 1},
		{"i > 0 ? 1 : 0.5", 0, 0, 0, 0.5},
		{"1 << 3", 0, 0, 0, 8},
		{"u", 2, 0, 0, 1},
		{"u", 2, 1, 1, 1},
		{"r + g + b", 1, 1, 0, 1.75},
		{"u.b", 0, 0, 0, 0.25},
		{"a", 0, 0, 0, 0},
		{"i / w", 1, 0, 0, 1.0 / 3},
		{"j + h", 0, 1, 0, 3},
		{"p[-1,0]", 2, 0, 0, 0.5},
		{"p[1,0].r", 0, 0, 2, 0.5},
		{"p{2,1}.g", 0, 0, 0, 1},
		{"p", 1, 0, 0, 0.5},
		{"max(0.2, 0.7) - min(0.2, 0.7)", 0, 0, 0, 0.5},
		{"pow(2, 10)", 0, 0, 0, 1024},
		{"abs(-3) + floor(1.7) + ceil(1.2)", 0, 0, 0, 6},
		{"cos(pi)", 0, 0, 0, -1},
		{"ln(e)", 0, 0, 0, 1},
		{"sqrt(16) + log(100)", 0, 0, 0, 6},
		{"1.5e1", 0, 0, 0, 15},
		{".5", 0, 0, 0, 0.5},
		{"sign(-4)", 0, 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.expr, err)
			}
			env := grid()
			env.I, env.J, env.Channel = tt.i, tt.j, tt.ch
			got, err := p.Eval(env)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"/0",
		"1 +",
		"(1",
		"foo",
		"bar(1)",
		"pow(1)",
		"1 $ 2",
		"p[0]",
		"u.q",
		"1 ? 2",
	} {
		t.Run(expr, func(t *testing.T) {
			if _, err := Parse(expr); err == nil {
				t.Errorf("Parse(%q) succeeded", expr)
			}
		})
	}
}

func TestEvalDivideByZero(t *testing.T) {
	for _, expr := range []string{"1/0", "1 % (i - i)", "mod(3, 0)"} {
		p, err := Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", expr, err)
		}
		if _, err := p.Eval(grid()); !errors.Is(err, ErrDivideByZero) {
			t.Errorf("%s: err = %v, want ErrDivideByZero", expr, err)
		}
	}
}

func TestEvalLogDomain(t *testing.T) {
	p, err := Parse("ln(0)")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Eval(grid()); err == nil {
		t.Error("ln(0) succeeded")
	}
}

func TestProgramString(t *testing.T) {
	p, err := Parse("u * 2")
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "u * 2" {
		t.Errorf("String() = %q", p.String())
	}
}
