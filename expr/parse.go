package expr

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Parse reads an expression from infix notation. Supported syntax:
// integer and decimal literals, variables, the elementary functions,
// +, -, *, /, ^ and parentheses. "ln" is accepted as an alias for
// "log".
func Parse(input string) (Expr, error) {
	p := &parser{src: input}
	p.next()
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokEOF {
		return nil, fmt.Errorf("expr: unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
	return e.Simplify(), nil
}

// MustParse is Parse that panics on error. Intended for fixed inputs.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

type tokenType int

const (
	tokEOF tokenType = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) next() {
	for p.off < len(p.src) && unicode.IsSpace(rune(p.src[p.off])) {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{typ: tokEOF, pos: start}
		return
	}
	c := p.src[p.off]
	switch {
	case c >= '0' && c <= '9':
		for p.off < len(p.src) && (p.src[p.off] >= '0' && p.src[p.off] <= '9' || p.src[p.off] == '.') {
			p.off++
		}
		p.tok = token{typ: tokNum, text: p.src[start:p.off], pos: start}
	case unicode.IsLetter(rune(c)) || c == '_':
		for p.off < len(p.src) && (unicode.IsLetter(rune(p.src[p.off])) || unicode.IsDigit(rune(p.src[p.off])) || p.src[p.off] == '_') {
			p.off++
		}
		p.tok = token{typ: tokIdent, text: p.src[start:p.off], pos: start}
	case c == '(':
		p.off++
		p.tok = token{typ: tokLParen, text: "(", pos: start}
	case c == ')':
		p.off++
		p.tok = token{typ: tokRParen, text: ")", pos: start}
	case strings.ContainsRune("+-*/^", rune(c)):
		p.off++
		p.tok = token{typ: tokOp, text: string(c), pos: start}
	default:
		p.tok = token{typ: tokOp, text: string(c), pos: start}
		p.off++
	}
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.tok.typ == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = MulOf(N(-1), right)
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return AddOf(terms...), nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for p.tok.typ == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			right = PowOf(right, N(-1))
		}
		factors = append(factors, right)
	}
	if len(factors) == 1 {
		return factors[0], nil
	}
	return MulOf(factors...), nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.typ == tokOp && p.tok.text == "-" {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), inner), nil
	}
	if p.tok.typ == tokOp && p.tok.text == "+" {
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.typ == tokOp && p.tok.text == "^" {
		p.next()
		// Right associative; -a binds to the exponent.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (Expr, error) {
	switch p.tok.typ {
	case tokNum:
		r, ok := new(big.Rat).SetString(p.tok.text)
		if !ok {
			return nil, fmt.Errorf("expr: bad numeric literal %q at offset %d", p.tok.text, p.tok.pos)
		}
		p.next()
		return R(r), nil
	case tokIdent:
		name := p.tok.text
		p.next()
		if p.tok.typ == tokLParen {
			p.next()
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if p.tok.typ != tokRParen {
				return nil, fmt.Errorf("expr: missing ) at offset %d", p.tok.pos)
			}
			p.next()
			return applyFunc(name, arg)
		}
		return S(name), nil
	case tokLParen:
		p.next()
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.tok.typ != tokRParen {
			return nil, fmt.Errorf("expr: missing ) at offset %d", p.tok.pos)
		}
		p.next()
		return inner, nil
	}
	return nil, fmt.Errorf("expr: unexpected %q at offset %d", p.tok.text, p.tok.pos)
}

func applyFunc(name string, arg Expr) (Expr, error) {
	switch name {
	case "ln":
		name = "log"
	case "sqrt":
		return SqrtOf(arg), nil
	case "arctan":
		name = "atan"
	case "arcsin":
		name = "asin"
	case "arccos":
		name = "acos"
	}
	if !knownFuncs[name] || name == "RootOf" {
		return nil, fmt.Errorf("expr: unknown function %q", name)
	}
	return funcOf(name, arg).Simplify(), nil
}
