package expr

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Add: n-ary sum
// ============================================================

// Add is an n-ary sum.
type Add struct {
	terms []Expr
}

// AddOf builds the sum of the given terms and simplifies it.
func AddOf(terms ...Expr) Expr {
	return (&Add{terms: terms}).Simplify()
}

// Terms returns the summands.
func (a *Add) Terms() []Expr { return a.terms }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		st := t.Simplify()
		if inner, ok := st.(*Add); ok {
			flat = append(flat, inner.terms...)
			continue
		}
		flat = append(flat, st)
	}

	// Collect like terms by their non-numeric part.
	num := new(big.Rat)
	type bucket struct {
		coeff *big.Rat
		rest  Expr
	}
	order := []string{}
	buckets := map[string]*bucket{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			num.Add(num, n.val)
			continue
		}
		coeff, rest := splitCoeff(t)
		key := rest.String()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{coeff: new(big.Rat), rest: rest}
			buckets[key] = b
			order = append(order, key)
		}
		b.coeff.Add(b.coeff, coeff)
	}
	// Descending key order puts higher powers first.
	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	out := []Expr{}
	for _, key := range order {
		b := buckets[key]
		if b.coeff.Sign() == 0 {
			continue
		}
		if b.coeff.Cmp(ratOne) == 0 {
			out = append(out, b.rest)
		} else {
			out = append(out, remul(R(b.coeff), b.rest))
		}
	}
	if num.Sign() != 0 {
		out = append(out, R(num))
	}

	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

// splitCoeff separates a numeric leading coefficient from a term.
func splitCoeff(e Expr) (*big.Rat, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return new(big.Rat).Set(ratOne), e
	}
	coeff := new(big.Rat).Set(ratOne)
	rest := []Expr{}
	for _, f := range m.factors {
		if n, isNum := f.(*Num); isNum {
			coeff.Mul(coeff, n.val)
			continue
		}
		rest = append(rest, f)
	}
	switch len(rest) {
	case 0:
		return coeff, N(1)
	case 1:
		return coeff, rest[0]
	}
	return coeff, &Mul{factors: rest}
}

// remul rebuilds coeff*rest without re-running full simplification.
func remul(coeff *Num, rest Expr) Expr {
	if n, ok := rest.(*Num); ok {
		return R(new(big.Rat).Mul(coeff.val, n.val))
	}
	if m, ok := rest.(*Mul); ok {
		fs := append([]Expr{coeff}, m.factors...)
		return &Mul{factors: fs}
	}
	return &Mul{factors: []Expr{coeff, rest}}
}

func (a *Add) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	s := strings.Join(parts, " + ")
	return strings.ReplaceAll(s, "+ -", "- ")
}

func (a *Add) LaTeX() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.LaTeX()
	}
	s := strings.Join(parts, " + ")
	return strings.ReplaceAll(s, "+ -", "- ")
}

func (a *Add) Sub(varName string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Sub(varName, value)
	}
	return AddOf(out...)
}

func (a *Add) Diff(varName string) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Diff(varName)
	}
	return AddOf(out...)
}

func (a *Add) Eval() (float64, bool) {
	sum := 0.0
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return 0, false
		}
		sum += v
	}
	return sum, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.Simplify().(*Add)
	if !ok {
		return false
	}
	s, sok := a.Simplify().(*Add)
	if !sok {
		return a.Simplify().Equal(other)
	}
	if len(s.terms) != len(o.terms) {
		return false
	}
	for i := range s.terms {
		if !s.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) kind() string { return "add" }

func (a *Add) toJSON() map[string]any {
	kids := make([]any, len(a.terms))
	for i, t := range a.terms {
		kids[i] = t.toJSON()
	}
	return map[string]any{"type": "add", "terms": kids}
}

// ============================================================
// Mul: n-ary product
// ============================================================

// Mul is an n-ary product.
type Mul struct {
	factors []Expr
}

// MulOf builds the product of the given factors and simplifies it.
func MulOf(factors ...Expr) Expr {
	return (&Mul{factors: factors}).Simplify()
}

// Factors returns the factors.
func (m *Mul) Factors() []Expr { return m.factors }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		sf := f.Simplify()
		if inner, ok := sf.(*Mul); ok {
			flat = append(flat, inner.factors...)
			continue
		}
		flat = append(flat, sf)
	}

	num := new(big.Rat).Set(ratOne)
	type bucket struct {
		base Expr
		exps []Expr
	}
	order := []string{}
	buckets := map[string]*bucket{}
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			if n.isZero() {
				return N(0)
			}
			num.Mul(num, n.val)
			continue
		}
		base, exp := splitPow(f)
		key := base.String()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{base: base}
			buckets[key] = b
			order = append(order, key)
		}
		b.exps = append(b.exps, exp)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	out := []Expr{}
	for _, key := range order {
		b := buckets[key]
		var e Expr
		if len(b.exps) == 1 {
			e = b.exps[0]
		} else {
			e = AddOf(b.exps...)
		}
		p := PowOf(b.base, e)
		if n, ok := p.(*Num); ok {
			num.Mul(num, n.val)
			continue
		}
		out = append(out, p)
	}

	if num.Sign() == 0 {
		return N(0)
	}
	if num.Cmp(ratOne) != 0 {
		out = append([]Expr{R(num)}, out...)
	}
	switch len(out) {
	case 0:
		return N(1)
	case 1:
		return out[0]
	}
	return &Mul{factors: out}
}

func splitPow(e Expr) (base, exp Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (m *Mul) String() string {
	prefix := ""
	rest := m.factors
	if n, ok := m.factors[0].(*Num); ok {
		rest = m.factors[1:]
		if n.val.Cmp(ratMinusOne) == 0 {
			prefix = "-"
		} else {
			prefix = n.String() + "*"
		}
	}
	parts := make([]string, len(rest))
	for i, f := range rest {
		parts[i] = parenthesize(f)
	}
	return prefix + strings.Join(parts, "*")
}

var ratMinusOne = big.NewRat(-1, 1)

func (m *Mul) LaTeX() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		switch f.(type) {
		case *Add:
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		default:
			parts[i] = f.LaTeX()
		}
	}
	return strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Sub(varName, value)
	}
	return MulOf(out...)
}

// Diff applies the product rule.
func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i := range m.factors {
		fs := make([]Expr, len(m.factors))
		copy(fs, m.factors)
		fs[i] = m.factors[i].Diff(varName)
		terms = append(terms, MulOf(fs...))
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (float64, bool) {
	prod := 1.0
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return 0, false
		}
		prod *= v
	}
	return prod, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.Simplify().(*Mul)
	if !ok {
		return false
	}
	s, sok := m.Simplify().(*Mul)
	if !sok {
		return m.Simplify().Equal(other)
	}
	if len(s.factors) != len(o.factors) {
		return false
	}
	for i := range s.factors {
		if !s.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) kind() string { return "mul" }

func (m *Mul) toJSON() map[string]any {
	kids := make([]any, len(m.factors))
	for i, f := range m.factors {
		kids[i] = f.toJSON()
	}
	return map[string]any{"type": "mul", "factors": kids}
}

// ============================================================
// Pow: exponentiation
// ============================================================

// Pow is an exponentiation node.
type Pow struct {
	base Expr
	exp  Expr
}

// PowOf builds base raised to exp and simplifies it.
func PowOf(base, exp Expr) Expr {
	return (&Pow{base: base, exp: exp}).Simplify()
}

// SqrtOf builds the principal square root of e.
func SqrtOf(e Expr) Expr { return PowOf(e, F(1, 2)) }

// Base returns the base of the power.
func (p *Pow) Base() Expr { return p.base }

// Exp returns the exponent of the power.
func (p *Pow) Exp() Expr { return p.exp }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok {
		if en.isZero() {
			return N(1)
		}
		if en.isOne() {
			return base
		}
		if bn, ok := base.(*Num); ok {
			if r, done := ratPow(bn.val, en.val); done {
				return R(r)
			}
		}
	}
	if bn, ok := base.(*Num); ok {
		if bn.isOne() {
			return N(1)
		}
		if bn.isZero() {
			return N(0)
		}
	}
	// (b^m)^n with numeric n folds into one power.
	if inner, ok := base.(*Pow); ok {
		if _, numExp := exp.(*Num); numExp {
			return PowOf(inner.base, MulOf(inner.exp, exp))
		}
	}
	return &Pow{base: base, exp: exp}
}

// ratPow computes b^e exactly when possible: integer exponents, and
// half-integer exponents of perfect squares.
func ratPow(b, e *big.Rat) (*big.Rat, bool) {
	if e.IsInt() {
		n := e.Num()
		if !n.IsInt64() {
			return nil, false
		}
		k := n.Int64()
		neg := k < 0
		if neg {
			k = -k
		}
		out := new(big.Rat).Set(ratOne)
		pw := new(big.Rat).Set(b)
		for i := int64(0); i < k; i++ {
			out.Mul(out, pw)
		}
		if neg {
			if out.Sign() == 0 {
				return nil, false
			}
			out.Inv(out)
		}
		return out, true
	}
	half := big.NewRat(1, 2)
	if e.Cmp(half) == 0 && b.Sign() >= 0 {
		if s, ok := ratSqrt(b); ok {
			return s, true
		}
	}
	return nil, false
}

// ratSqrt returns the exact square root of a nonnegative rational when
// both numerator and denominator are perfect squares.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	sn := new(big.Int).Sqrt(r.Num())
	sd := new(big.Int).Sqrt(r.Denom())
	check := new(big.Int)
	if check.Mul(sn, sn).Cmp(r.Num()) != 0 {
		return nil, false
	}
	if check.Mul(sd, sd).Cmp(r.Denom()) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(sn, sd), true
}

func (p *Pow) String() string {
	return fmt.Sprintf("%s^%s", parenthesize(p.base), parenthesize(p.exp))
}

func (p *Pow) LaTeX() string {
	b := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		b = "\\left(" + b + "\\right)"
	}
	return fmt.Sprintf("%s^{%s}", b, p.exp.LaTeX())
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

// Diff uses the generalized power rule
// d(b^e) = b^e * (e'*log(b) + e*b'/b).
func (p *Pow) Diff(varName string) Expr {
	if en, ok := p.exp.(*Num); ok {
		// d(b^n) = n*b^(n-1)*b'
		return MulOf(en, PowOf(p.base, AddOf(en, N(-1))), p.base.Diff(varName))
	}
	inner := AddOf(
		MulOf(p.exp.Diff(varName), LogOf(p.base)),
		MulOf(p.exp, p.base.Diff(varName), PowOf(p.base, N(-1))),
	)
	return MulOf(p, inner)
}

func (p *Pow) Eval() (float64, bool) {
	b, ok := p.base.Eval()
	if !ok {
		return 0, false
	}
	e, ok := p.exp.Eval()
	if !ok {
		return 0, false
	}
	return floatPow(b, e)
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.Simplify().(*Pow)
	if !ok {
		return false
	}
	s, sok := p.Simplify().(*Pow)
	if !sok {
		return p.Simplify().Equal(other)
	}
	return s.base.Equal(o.base) && s.exp.Equal(o.exp)
}

func (p *Pow) kind() string { return "pow" }

func (p *Pow) toJSON() map[string]any {
	return map[string]any{
		"type": "pow",
		"base": p.base.toJSON(),
		"exp":  p.exp.toJSON(),
	}
}
