// Package algebra implements exact arithmetic for the integration
// engine: constants in Q or a quadratic extension Q(alpha), recursive
// rational functions over a tower of generators, and dense polynomial
// arithmetic with gcd, squarefree factorization, resultants and
// partial fractions.
//
// Invariant violations such as division by zero or mixing distinct
// algebraic extensions panic with messages prefixed "algebra:". The
// coordinator maps those panics to algorithm failures.
package algebra

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Rational-coefficient polynomials (internal helpers)
// ============================================================

// ratPoly is a dense polynomial over Q, ascending order, trimmed.
type ratPoly []*big.Rat

func rpTrim(p ratPoly) ratPoly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func rpDeg(p ratPoly) int { return len(p) - 1 }

func rpCopy(p ratPoly) ratPoly {
	out := make(ratPoly, len(p))
	for i, c := range p {
		out[i] = new(big.Rat).Set(c)
	}
	return out
}

func rpAdd(a, b ratPoly) ratPoly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(ratPoly, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(a) {
			out[i].Add(out[i], a[i])
		}
		if i < len(b) {
			out[i].Add(out[i], b[i])
		}
	}
	return rpTrim(out)
}

func rpNeg(a ratPoly) ratPoly {
	out := make(ratPoly, len(a))
	for i, c := range a {
		out[i] = new(big.Rat).Neg(c)
	}
	return out
}

func rpSub(a, b ratPoly) ratPoly { return rpAdd(a, rpNeg(b)) }

func rpMul(a, b ratPoly) ratPoly {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make(ratPoly, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	tmp := new(big.Rat)
	for i, ca := range a {
		for j, cb := range b {
			tmp.Mul(ca, cb)
			out[i+j].Add(out[i+j], tmp)
		}
	}
	return rpTrim(out)
}

func rpScale(a ratPoly, s *big.Rat) ratPoly {
	if s.Sign() == 0 {
		return nil
	}
	out := make(ratPoly, len(a))
	for i, c := range a {
		out[i] = new(big.Rat).Mul(c, s)
	}
	return out
}

// rpDivMod divides a by b. b must be nonzero.
func rpDivMod(a, b ratPoly) (quo, rem ratPoly) {
	if len(b) == 0 {
		panic("algebra: rational polynomial division by zero")
	}
	rem = rpCopy(a)
	if rpDeg(a) < rpDeg(b) {
		return nil, rem
	}
	quo = make(ratPoly, rpDeg(a)-rpDeg(b)+1)
	for i := range quo {
		quo[i] = new(big.Rat)
	}
	lead := b[len(b)-1]
	for rpDeg(rem) >= rpDeg(b) {
		shift := rpDeg(rem) - rpDeg(b)
		c := new(big.Rat).Quo(rem[len(rem)-1], lead)
		quo[shift].Set(c)
		piece := make(ratPoly, shift+1)
		for i := range piece {
			piece[i] = new(big.Rat)
		}
		piece[shift].Set(c)
		rem = rpSub(rem, rpMul(piece, b))
	}
	return rpTrim(quo), rem
}

func rpMod(a, m ratPoly) ratPoly {
	_, r := rpDivMod(a, m)
	return r
}

// rpExtGCD returns g, s, t with s*a + t*b = g and g monic.
func rpExtGCD(a, b ratPoly) (g, s, t ratPoly) {
	r0, r1 := rpCopy(a), rpCopy(b)
	s0, s1 := ratPoly{big.NewRat(1, 1)}, ratPoly(nil)
	t0, t1 := ratPoly(nil), ratPoly{big.NewRat(1, 1)}
	for len(r1) != 0 {
		q, r := rpDivMod(r0, r1)
		r0, r1 = r1, r
		s0, s1 = s1, rpSub(s0, rpMul(q, s1))
		t0, t1 = t1, rpSub(t0, rpMul(q, t1))
	}
	if len(r0) == 0 {
		return nil, nil, nil
	}
	inv := new(big.Rat).Inv(r0[len(r0)-1])
	return rpScale(r0, inv), rpScale(s0, inv), rpScale(t0, inv)
}

func rpEqual(a, b ratPoly) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

// ============================================================
// Root: a quadratic algebraic number
// ============================================================

// Root identifies an algebraic number by its monic minimal polynomial
// over Q, stored in ascending coefficient order. The represented root
// is the abstract one; conjugates are expressed through coordinates.
// Min is read-only after construction.
type Root struct {
	Min []*big.Rat
}

// NewRoot builds a root of the given monic polynomial. The slice is
// copied.
func NewRoot(min []*big.Rat) *Root {
	min = rpTrim(rpCopy(min))
	if len(min) < 3 {
		panic("algebra: root needs degree at least 2")
	}
	if min[len(min)-1].Cmp(big.NewRat(1, 1)) != 0 {
		panic("algebra: minimal polynomial must be monic")
	}
	return &Root{Min: min}
}

// ImagRoot returns the root i of c^2 + 1.
func ImagRoot() *Root {
	return NewRoot([]*big.Rat{big.NewRat(1, 1), new(big.Rat), big.NewRat(1, 1)})
}

// Deg returns the degree of the minimal polynomial.
func (r *Root) Deg() int { return len(r.Min) - 1 }

// SamePoly reports whether two roots share the same minimal polynomial.
func (r *Root) SamePoly(o *Root) bool {
	return rpEqual(r.Min, o.Min)
}

// Disc returns the discriminant p^2 - 4q of a quadratic root
// c^2 + p c + q.
func (r *Root) Disc() *big.Rat {
	if r.Deg() != 2 {
		panic("algebra: discriminant needs a quadratic root")
	}
	d := new(big.Rat).Mul(r.Min[1], r.Min[1])
	four := new(big.Rat).SetInt64(4)
	return d.Sub(d, new(big.Rat).Mul(four, r.Min[0]))
}

func (r *Root) String() string {
	parts := []string{}
	for i := len(r.Min) - 1; i >= 0; i-- {
		if r.Min[i].Sign() == 0 {
			continue
		}
		switch i {
		case 0:
			parts = append(parts, r.Min[i].RatString())
		case 1:
			parts = append(parts, r.Min[i].RatString()+"*c")
		default:
			parts = append(parts, fmt.Sprintf("%s*c^%d", r.Min[i].RatString(), i))
		}
	}
	return "RootOf(" + strings.Join(parts, " + ") + ")"
}

// ============================================================
// Const: an element of Q or Q(alpha)
// ============================================================

// Const is an exact constant: a rational number, or an element of
// Q(alpha) stored as coordinates in powers of alpha.
type Const struct {
	rat  *big.Rat // set when root is nil
	root *Root
	co   ratPoly // coordinates; trimmed, degree < root.Deg()
}

// QInt builds the integer constant n.
func QInt(n int64) Const { return Const{rat: new(big.Rat).SetInt64(n)} }

// QFrac builds the rational constant p/q.
func QFrac(p, q int64) Const { return Const{rat: big.NewRat(p, q)} }

// FromRat builds a constant from a big.Rat, copying the value.
func FromRat(r *big.Rat) Const { return Const{rat: new(big.Rat).Set(r)} }

// Alpha returns the abstract root of r as a field element.
func Alpha(r *Root) Const {
	co := make(ratPoly, 2)
	co[0] = new(big.Rat)
	co[1] = big.NewRat(1, 1)
	return normConst(Const{root: r, co: co})
}

// normConst demotes an algebraic constant whose higher coordinates
// vanish back to a rational.
func normConst(c Const) Const {
	if c.root == nil {
		return c
	}
	co := rpTrim(c.co)
	if len(co) <= 1 {
		r := new(big.Rat)
		if len(co) == 1 {
			r.Set(co[0])
		}
		return Const{rat: r}
	}
	return Const{root: c.root, co: co}
}

// IsZero reports whether the constant is zero.
func (c Const) IsZero() bool { return c.root == nil && c.rat.Sign() == 0 }

// IsOne reports whether the constant is one.
func (c Const) IsOne() bool {
	return c.root == nil && c.rat.Cmp(big.NewRat(1, 1)) == 0
}

// IsRational reports whether the constant lies in Q.
func (c Const) IsRational() bool { return c.root == nil }

// Rat returns the rational value. The second return is false for
// proper algebraic constants.
func (c Const) Rat() (*big.Rat, bool) {
	if c.root == nil {
		return new(big.Rat).Set(c.rat), true
	}
	return nil, false
}

// Root returns the defining root of a proper algebraic constant, or
// nil for rationals.
func (c Const) Root() *Root { return c.root }

// Coords returns the coordinates of the constant in powers of alpha,
// padded to the extension degree. Rationals return a single element.
func (c Const) Coords() []*big.Rat {
	if c.root == nil {
		return []*big.Rat{new(big.Rat).Set(c.rat)}
	}
	out := make([]*big.Rat, c.root.Deg())
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(c.co) {
			out[i].Set(c.co[i])
		}
	}
	return out
}

// lift returns the coordinates of c as a ratPoly in the given root.
func (c Const) lift(r *Root) ratPoly {
	if c.root == nil {
		if c.rat.Sign() == 0 {
			return nil
		}
		return ratPoly{new(big.Rat).Set(c.rat)}
	}
	if !c.root.SamePoly(r) {
		panic("algebra: constants from different algebraic extensions")
	}
	return rpCopy(c.co)
}

// join finds the common extension of two constants, or nil for Q.
func joinRoots(a, b Const) *Root {
	if a.root != nil {
		if b.root != nil && !a.root.SamePoly(b.root) {
			panic("algebra: constants from different algebraic extensions")
		}
		return a.root
	}
	return b.root
}

// Add returns c + o.
func (c Const) Add(o Const) Const {
	r := joinRoots(c, o)
	if r == nil {
		return Const{rat: new(big.Rat).Add(c.rat, o.rat)}
	}
	return normConst(Const{root: r, co: rpAdd(c.lift(r), o.lift(r))})
}

// Sub returns c - o.
func (c Const) Sub(o Const) Const { return c.Add(o.Neg()) }

// Neg returns -c.
func (c Const) Neg() Const {
	if c.root == nil {
		return Const{rat: new(big.Rat).Neg(c.rat)}
	}
	return Const{root: c.root, co: rpNeg(c.co)}
}

// Mul returns c * o, reducing modulo the minimal polynomial.
func (c Const) Mul(o Const) Const {
	r := joinRoots(c, o)
	if r == nil {
		return Const{rat: new(big.Rat).Mul(c.rat, o.rat)}
	}
	prod := rpMul(c.lift(r), o.lift(r))
	return normConst(Const{root: r, co: rpMod(prod, r.Min)})
}

// Inv returns 1/c. It panics on zero and on elements without an
// inverse modulo the minimal polynomial.
func (c Const) Inv() Const {
	if c.root == nil {
		if c.rat.Sign() == 0 {
			panic("algebra: division by zero constant")
		}
		return Const{rat: new(big.Rat).Inv(c.rat)}
	}
	g, s, _ := rpExtGCD(c.co, c.root.Min)
	if rpDeg(g) != 0 {
		panic("algebra: constant has no inverse, reducible minimal polynomial")
	}
	return normConst(Const{root: c.root, co: rpMod(s, c.root.Min)})
}

// Div returns c / o.
func (c Const) Div(o Const) Const { return c.Mul(o.Inv()) }

// Conj returns the image of c under alpha -> -p - alpha for a
// quadratic extension. Rationals are fixed.
func (c Const) Conj() Const {
	if c.root == nil {
		return c
	}
	if c.root.Deg() != 2 {
		panic("algebra: conjugation needs a quadratic extension")
	}
	// c0 + c1*alpha -> (c0 - c1*p) - c1*alpha
	c0 := new(big.Rat)
	if len(c.co) > 0 {
		c0.Set(c.co[0])
	}
	c1 := new(big.Rat)
	if len(c.co) > 1 {
		c1.Set(c.co[1])
	}
	p := c.root.Min[1]
	out := make(ratPoly, 2)
	out[0] = new(big.Rat).Sub(c0, new(big.Rat).Mul(c1, p))
	out[1] = new(big.Rat).Neg(c1)
	return normConst(Const{root: c.root, co: out})
}

// Equal reports exact equality.
func (c Const) Equal(o Const) bool {
	if c.root == nil && o.root == nil {
		return c.rat.Cmp(o.rat) == 0
	}
	if (c.root == nil) != (o.root == nil) {
		return false
	}
	return c.root.SamePoly(o.root) && rpEqual(c.co, o.co)
}

func (c Const) String() string {
	if c.root == nil {
		return c.rat.RatString()
	}
	parts := []string{}
	for i := len(c.co) - 1; i >= 0; i-- {
		if c.co[i].Sign() == 0 {
			continue
		}
		switch i {
		case 0:
			parts = append(parts, c.co[i].RatString())
		case 1:
			parts = append(parts, c.co[i].RatString()+"*@")
		default:
			parts = append(parts, fmt.Sprintf("%s*@^%d", c.co[i].RatString(), i))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}
