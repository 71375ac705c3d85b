package algebra

import (
	"fmt"
	"strings"
)

// Poly is a dense polynomial in one tower generator with lower-level
// elements as coefficients, stored in ascending order and trimmed.
// The zero polynomial has no coefficients and degree -1.
type Poly struct {
	vari int
	co   []*Elem
}

// NewPoly builds a polynomial in generator vari from ascending
// coefficients. Coefficients must have level at most vari.
func NewPoly(vari int, co ...*Elem) *Poly {
	for _, c := range co {
		if c.Level() > vari {
			panic("algebra: coefficient level exceeds polynomial variable")
		}
	}
	n := len(co)
	for n > 0 && co[n-1].IsZero() {
		n--
	}
	out := make([]*Elem, n)
	copy(out, co[:n])
	return &Poly{vari: vari, co: out}
}

// NewPolyC builds a polynomial with constant coefficients.
func NewPolyC(vari int, cs ...Const) *Poly {
	co := make([]*Elem, len(cs))
	for i, c := range cs {
		co[i] = ConstElem(c)
	}
	return NewPoly(vari, co...)
}

func zeroPoly(vari int) *Poly { return &Poly{vari: vari} }
func onePoly(vari int) *Poly  { return &Poly{vari: vari, co: []*Elem{One()}} }

// Vari returns the generator index of the polynomial.
func (p *Poly) Vari() int { return p.vari }

// Deg returns the degree, -1 for the zero polynomial.
func (p *Poly) Deg() int { return len(p.co) - 1 }

// IsZero reports whether the polynomial is zero.
func (p *Poly) IsZero() bool { return len(p.co) == 0 }

// Coeff returns the coefficient of t^i, zero beyond the degree.
func (p *Poly) Coeff(i int) *Elem {
	if i < 0 || i >= len(p.co) {
		return Zero()
	}
	return p.co[i]
}

// LC returns the leading coefficient. Only valid on nonzero
// polynomials.
func (p *Poly) LC() *Elem {
	if p.IsZero() {
		panic("algebra: leading coefficient of zero polynomial")
	}
	return p.co[len(p.co)-1]
}

func (p *Poly) checkVari(q *Poly) {
	if p.vari != q.vari {
		panic("algebra: polynomial variable mismatch")
	}
}

// Add returns p + q.
func (p *Poly) Add(q *Poly) *Poly {
	p.checkVari(q)
	n := len(p.co)
	if len(q.co) > n {
		n = len(q.co)
	}
	co := make([]*Elem, n)
	for i := range co {
		co[i] = p.Coeff(i).Add(q.Coeff(i))
	}
	return NewPoly(p.vari, co...)
}

// Sub returns p - q.
func (p *Poly) Sub(q *Poly) *Poly { return p.Add(q.Neg()) }

// Neg returns -p.
func (p *Poly) Neg() *Poly {
	co := make([]*Elem, len(p.co))
	for i, c := range p.co {
		co[i] = c.Neg()
	}
	return &Poly{vari: p.vari, co: co}
}

// Mul returns p * q.
func (p *Poly) Mul(q *Poly) *Poly {
	p.checkVari(q)
	if p.IsZero() || q.IsZero() {
		return zeroPoly(p.vari)
	}
	co := make([]*Elem, len(p.co)+len(q.co)-1)
	for i := range co {
		co[i] = Zero()
	}
	for i, a := range p.co {
		for j, b := range q.co {
			co[i+j] = co[i+j].Add(a.Mul(b))
		}
	}
	return NewPoly(p.vari, co...)
}

// Scale returns e * p for a lower-level element e.
func (p *Poly) Scale(e *Elem) *Poly {
	if e.IsZero() {
		return zeroPoly(p.vari)
	}
	co := make([]*Elem, len(p.co))
	for i, c := range p.co {
		co[i] = c.Mul(e)
	}
	return NewPoly(p.vari, co...)
}

// ScaleC returns c * p for a constant c.
func (p *Poly) ScaleC(c Const) *Poly { return p.Scale(ConstElem(c)) }

// MulPow returns p * t^k.
func (p *Poly) MulPow(k int) *Poly {
	if p.IsZero() || k == 0 {
		return p
	}
	co := make([]*Elem, len(p.co)+k)
	for i := 0; i < k; i++ {
		co[i] = Zero()
	}
	copy(co[k:], p.co)
	return &Poly{vari: p.vari, co: co}
}

// Pow returns p^k for k >= 0.
func (p *Poly) Pow(k int) *Poly {
	out := onePoly(p.vari)
	for i := 0; i < k; i++ {
		out = out.Mul(p)
	}
	return out
}

// DivMod returns quotient and remainder of p by q. q must be nonzero.
func (p *Poly) DivMod(q *Poly) (quo, rem *Poly) {
	p.checkVari(q)
	if q.IsZero() {
		panic("algebra: polynomial division by zero")
	}
	dq := q.Deg()
	rem = p
	if p.Deg() < dq {
		return zeroPoly(p.vari), rem
	}
	qc := make([]*Elem, p.Deg()-dq+1)
	for i := range qc {
		qc[i] = Zero()
	}
	lcInv := q.LC().Inv()
	for rem.Deg() >= dq {
		shift := rem.Deg() - dq
		c := rem.LC().Mul(lcInv)
		qc[shift] = c
		rem = rem.Sub(q.MulPow(shift).Scale(c))
	}
	return NewPoly(p.vari, qc...), rem
}

// Mod returns the remainder of p by q.
func (p *Poly) Mod(q *Poly) *Poly {
	_, r := p.DivMod(q)
	return r
}

// ExactDiv divides p by q and panics when the division leaves a
// remainder.
func (p *Poly) ExactDiv(q *Poly) *Poly {
	quo, rem := p.DivMod(q)
	if !rem.IsZero() {
		panic("algebra: inexact polynomial division")
	}
	return quo
}

// Monic returns the monic scalar multiple of p together with the
// leading coefficient that was divided out. The zero polynomial is
// returned unchanged with unit scale.
func (p *Poly) Monic() (*Poly, *Elem) {
	if p.IsZero() {
		return p, One()
	}
	lc := p.LC()
	if lc.IsOne() {
		return p, lc
	}
	return p.Scale(lc.Inv()), lc
}

// FormalDeriv returns the derivative of p with respect to its own
// generator, coefficients held constant.
func (p *Poly) FormalDeriv() *Poly {
	if p.Deg() < 1 {
		return zeroPoly(p.vari)
	}
	co := make([]*Elem, p.Deg())
	for i := 1; i <= p.Deg(); i++ {
		co[i-1] = p.co[i].ScaleC(QInt(int64(i)))
	}
	return NewPoly(p.vari, co...)
}

// ShiftVar re-expresses p as a polynomial in a higher generator index
// with the same coefficients. Used to free its own index as a formal
// indeterminate.
func (p *Poly) ShiftVar(newVari int) *Poly {
	if newVari < p.vari {
		panic("algebra: cannot shift polynomial to lower variable")
	}
	return &Poly{vari: newVari, co: p.co}
}

// Elem returns the polynomial as a field element.
func (p *Poly) Elem() *Elem {
	if p.IsZero() {
		return Zero()
	}
	if p.Deg() == 0 {
		return p.co[0]
	}
	return &Elem{level: p.vari + 1, num: p, den: onePoly(p.vari)}
}

// ConstCoeffs returns the coefficients when all of them are constants.
func (p *Poly) ConstCoeffs() ([]Const, bool) {
	out := make([]Const, len(p.co))
	for i, c := range p.co {
		cv, ok := c.ConstVal()
		if !ok {
			return nil, false
		}
		out[i] = cv
	}
	return out, true
}

// Conj applies algebraic conjugation coefficient-wise.
func (p *Poly) Conj() *Poly {
	co := make([]*Elem, len(p.co))
	for i, c := range p.co {
		co[i] = c.Conj()
	}
	return NewPoly(p.vari, co...)
}

// Equal reports exact equality.
func (p *Poly) Equal(q *Poly) bool {
	if p.vari != q.vari || len(p.co) != len(q.co) {
		return false
	}
	for i := range p.co {
		if !p.co[i].Equal(q.co[i]) {
			return false
		}
	}
	return true
}

func (p *Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	name := fmt.Sprintf("t%d", p.vari)
	parts := []string{}
	for i := len(p.co) - 1; i >= 0; i-- {
		c := p.co[i]
		if c.IsZero() {
			continue
		}
		var part string
		switch i {
		case 0:
			part = c.String()
		case 1:
			part = "(" + c.String() + ")*" + name
		default:
			part = fmt.Sprintf("(%s)*%s^%d", c.String(), name, i)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " + ")
}

// ============================================================
// GCD, extended gcd, inverses
// ============================================================

// GCD returns the monic greatest common divisor. The gcd with zero is
// the monic multiple of the other argument.
func GCD(a, b *Poly) *Poly {
	a.checkVari(b)
	r0, r1 := a, b
	for !r1.IsZero() {
		r0, r1 = r1, r0.Mod(r1)
	}
	m, _ := r0.Monic()
	return m
}

// ExtGCD returns g, s, t with s*a + t*b = g and g monic.
func ExtGCD(a, b *Poly) (g, s, t *Poly) {
	a.checkVari(b)
	r0, r1 := a, b
	s0, s1 := onePoly(a.vari), zeroPoly(a.vari)
	t0, t1 := zeroPoly(a.vari), onePoly(a.vari)
	for !r1.IsZero() {
		q, r := r0.DivMod(r1)
		r0, r1 = r1, r
		s0, s1 = s1, s0.Sub(q.Mul(s1))
		t0, t1 = t1, t0.Sub(q.Mul(t1))
	}
	if r0.IsZero() {
		return r0, s0, t0
	}
	lc := r0.LC()
	inv := lc.Inv()
	return r0.Scale(inv), s0.Scale(inv), t0.Scale(inv)
}

// ModInverse returns the inverse of a modulo m, or an error when a
// and m share a factor.
func ModInverse(a, m *Poly) (*Poly, error) {
	g, s, _ := ExtGCD(a, m)
	if g.Deg() != 0 {
		return nil, fmt.Errorf("no inverse of %s modulo %s", a, m)
	}
	return s.Mod(m), nil
}

// ============================================================
// Squarefree factorization (Yun)
// ============================================================

// SqfFactor is one factor of a squarefree decomposition.
type SqfFactor struct {
	P    *Poly
	Mult int
}

// Squarefree returns the monic squarefree decomposition of p, factors
// in increasing multiplicity. The formal derivative is used, so the
// result is the squarefree split of the polynomial over its
// coefficient field.
func (p *Poly) Squarefree() []SqfFactor {
	f, _ := p.Monic()
	if f.Deg() < 1 {
		return nil
	}
	fp := f.FormalDeriv()
	g := GCD(f, fp)
	if g.Deg() == 0 {
		return []SqfFactor{{P: f, Mult: 1}}
	}
	b := f.ExactDiv(g)
	c := fp.ExactDiv(g)
	d := c.Sub(b.FormalDeriv())
	var out []SqfFactor
	for i := 1; ; i++ {
		a := GCD(b, d)
		if a.Deg() > 0 {
			out = append(out, SqfFactor{P: a, Mult: i})
		}
		b = b.ExactDiv(a)
		if b.Deg() == 0 {
			break
		}
		c = d.ExactDiv(a)
		d = c.Sub(b.FormalDeriv())
	}
	return out
}

// ============================================================
// Resultant
// ============================================================

// Resultant computes the resultant of a and b with respect to their
// generator by the Euclidean remainder sequence.
func Resultant(a, b *Poly) *Elem {
	a.checkVari(b)
	if a.IsZero() || b.IsZero() {
		return Zero()
	}
	res := One()
	if a.Deg() < b.Deg() {
		if a.Deg()*b.Deg()%2 == 1 {
			res = res.Neg()
		}
		a, b = b, a
	}
	for {
		if b.Deg() == 0 {
			return res.Mul(b.LC().PowInt(a.Deg()))
		}
		r := a.Mod(b)
		if r.IsZero() {
			return Zero()
		}
		res = res.Mul(b.LC().PowInt(a.Deg() - r.Deg()))
		if a.Deg()*b.Deg()%2 == 1 {
			res = res.Neg()
		}
		a, b = b, r
	}
}

// ============================================================
// Partial fractions
// ============================================================

// PartialFractions splits a/(f1^m1 * ... * fn^mn) into numerators
// A_i with sum A_i/f_i^m_i. The factors must be pairwise coprime and
// the fraction proper.
func PartialFractions(a *Poly, fs []SqfFactor) []*Poly {
	if len(fs) == 1 {
		return []*Poly{a}
	}
	out := make([]*Poly, len(fs))
	powers := make([]*Poly, len(fs))
	for i, f := range fs {
		powers[i] = f.P.Pow(f.Mult)
	}
	num := a
	for i := range fs {
		rest := onePoly(a.vari)
		for j := i + 1; j < len(fs); j++ {
			rest = rest.Mul(powers[j])
		}
		if rest.Deg() == 0 {
			out[i] = num
			break
		}
		g, s, t := ExtGCD(powers[i], rest)
		if g.Deg() != 0 {
			panic("algebra: partial fraction factors share a root")
		}
		// s*F + t*R = 1, so num/(F*R) = (num*t mod F)/F + (num*s + q*R)/R
		// with q the quotient of num*t by F.
		q, ai := num.Mul(t).DivMod(powers[i])
		out[i] = ai
		num = num.Mul(s).Add(q.Mul(rest))
	}
	return out
}
