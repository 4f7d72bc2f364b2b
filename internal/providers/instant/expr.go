package instant

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errSyntax       = errors.New("syntax error")
	errDivideByZero = errors.New("division by zero")
)

// evaluate computes an arithmetic expression made of non-negative numbers and
// the operators + - * / % **. ** binds tightest and associates to the right,
// / is true division and % takes the sign of the divisor.
func evaluate(expr string) (float64, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks}
	v, err := p.sum()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, errSyntax
	}
	return v, nil
}

type token struct {
	op  string
	num float64
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '*' && i+1 < len(s) && s[i+1] == '*':
			toks = append(toks, token{op: "**"})
			i += 2
		case strings.IndexByte("+-*/%", c) >= 0:
			toks = append(toks, token{op: string(c)})
			i++
		case c == '.' || c >= '0' && c <= '9':
			j := i
			for j < len(s) && (s[j] == '.' || s[j] >= '0' && s[j] <= '9') {
				j++
			}
			n, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, errSyntax
			}
			toks = append(toks, token{num: n})
			i = j
		default:
			return nil, errSyntax
		}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].op
	}
	return ""
}

func (p *parser) sum() (float64, error) {
	v, err := p.product()
	if err != nil {
		return 0, err
	}
	for op := p.peek(); op == "+" || op == "-"; op = p.peek() {
		p.pos++
		r, err := p.product()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			v += r
		} else {
			v -= r
		}
	}
	return v, nil
}

func (p *parser) product() (float64, error) {
	v, err := p.power()
	if err != nil {
		return 0, err
	}
	for op := p.peek(); op == "*" || op == "/" || op == "%"; op = p.peek() {
		p.pos++
		r, err := p.power()
		if err != nil {
			return 0, err
		}
		switch op {
		case "*":
			v *= r
		case "/":
			if r == 0 {
				return 0, errDivideByZero
			}
			v /= r
		case "%":
			if r == 0 {
				return 0, errDivideByZero
			}
			v = floorMod(v, r)
		}
	}
	return v, nil
}

func (p *parser) power() (float64, error) {
	base, err := p.operand()
	if err != nil {
		return 0, err
	}
	if p.peek() != "**" {
		return base, nil
	}
	p.pos++
	exp, err := p.power()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *parser) operand() (float64, error) {
	if p.pos >= len(p.toks) || p.toks[p.pos].op != "" {
		return 0, errSyntax
	}
	v := p.toks[p.pos].num
	p.pos++
	return v, nil
}

func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// formatNumber prints whole values without a fraction and everything else
// with eight significant digits.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 8, 64)
}
