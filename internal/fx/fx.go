// Package fx parses and evaluates the per-pixel expression language used
// by the Fx operator.
//
// An expression is evaluated once per pixel and channel. It sees the
// current sample as u, the pixel's channels as r, g, b and a, the pixel
// position as i and j, and the image size as w and h. Neighbors are read
// with p[dx,dy] (relative) and p{x,y} (absolute); both take an optional
// channel suffix such as p[-1,0].r. Arithmetic follows C precedence with
// ^ for exponentiation and ?: for selection.
package fx

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ErrDivideByZero is returned by Eval when a division or modulus has a
// zero divisor.
var ErrDivideByZero = errors.New("fx: division by zero")

// Env is the per-pixel evaluation context.
type Env struct {
	// I and J are the pixel coordinates; W and H the image size.
	I, J, W, H int

	// Channel is the index into the pixel of the channel being computed.
	Channel int

	// Names maps r, g, b, a (and c, m, y, k) to channel indices, or -1.
	Names map[byte]int

	// Pixel returns the samples at (x, y); coordinates outside the image
	// are resolved by the caller.
	Pixel func(x, y int) []float64
}

// Program is a parsed expression.
type Program struct {
	src  string
	root node
}

// String returns the source text.
func (p *Program) String() string { return p.src }

// Eval computes the expression for env.
func (p *Program) Eval(env *Env) (float64, error) {
	return p.root.eval(env)
}

// Parse compiles an expression.
func Parse(src string) (*Program, error) {
	ps := &parser{lex: lexer{src: src}}
	ps.next()
	if ps.err != nil {
		return nil, ps.err
	}
	if ps.tok.kind == tokEOF {
		return nil, errors.New("fx: empty expression")
	}
	n, err := ps.expr()
	if err != nil {
		return nil, err
	}
	if ps.err != nil {
		return nil, ps.err
	}
	if ps.tok.kind != tokEOF {
		return nil, ps.errorf("unexpected %q", ps.tok.text)
	}
	return &Program{src: src, root: n}, nil
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
)

type token struct {
	kind tokKind
	text string
	num  float64
	pos  int
}

type lexer struct {
	src string
	pos int
}

var twoCharOps = []string{"<=", ">=", "==", "!=", "&&", "||", "<<", ">>"}

func (l *lexer) scan() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := l.src[l.pos]
	switch {
	case isDigit(c) || c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			save := l.pos
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.pos++
			}
			if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
			} else {
				l.pos = save
			}
		}
		text := l.src[start:l.pos]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, errors.Errorf("fx: bad number %q at %d", text, start)
		}
		return token{kind: tokNum, text: text, num: v, pos: start}, nil
	case isLetter(c):
		for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
			l.pos++
		}
		return token{kind: tokIdent, text: strings.ToLower(l.src[start:l.pos]), pos: start}, nil
	}
	for _, op := range twoCharOps {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += 2
			return token{kind: tokOp, text: op, pos: start}, nil
		}
	}
	if strings.IndexByte("+-*/%^()<>!?:,.[]{}", c) >= 0 {
		l.pos++
		return token{kind: tokOp, text: string(c), pos: start}, nil
	}
	return token{}, errors.Errorf("fx: unexpected character %q at %d", c, start)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
