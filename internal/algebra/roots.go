package algebra

import (
	"math/big"

	"risch/internal/fault"
)

// divisorCap bounds trial division when enumerating rational root
// candidates. Constant terms with larger prime factors make the
// search incomplete, which surfaces as an algorithm failure later.
const divisorCap = 1 << 20

// FindRoots returns the distinct roots of a polynomial with the given
// constant coefficients in ascending order. Rational roots are found
// by the rational root theorem; an irreducible quadratic remainder
// yields a conjugate pair of algebraic roots when algebraic is set and
// fault.ErrNeedAlgebraic otherwise. A quartic remainder is first split
// into two rational quadratics where possible. Anything beyond that is
// an algorithm failure.
func FindRoots(cs []Const, algebraic bool) ([]Const, error) {
	rp := make(ratPoly, len(cs))
	for i, c := range cs {
		r, ok := c.Rat()
		if !ok {
			return nil, fault.Algorithmf("root finding over an algebraic coefficient field")
		}
		rp[i] = r
	}
	rp = rpTrim(rp)
	if rpDeg(rp) < 1 {
		return nil, nil
	}

	// Work on the squarefree part; multiplicities do not matter here.
	sq := rp
	if g, _, _ := rpExtGCD(rp, rpDeriv(rp)); rpDeg(g) > 0 {
		sq, _ = rpDivMod(rp, g)
	}

	var roots []Const
	if sq[0].Sign() == 0 {
		roots = append(roots, QInt(0))
		sq = rpTrim(sq[1:])
	}

	if rpDeg(sq) >= 1 {
		for _, cand := range rationalCandidates(sq) {
			if rpDeg(sq) < 1 {
				break
			}
			if rpEval(sq, cand).Sign() == 0 {
				roots = append(roots, FromRat(cand))
				lin := ratPoly{new(big.Rat).Neg(cand), big.NewRat(1, 1)}
				sq, _ = rpDivMod(sq, lin)
			}
		}
	}

	switch rpDeg(sq) {
	case -1, 0:
	case 1:
		r := new(big.Rat).Quo(sq[0], sq[1])
		roots = append(roots, FromRat(r.Neg(r)))
	case 2:
		qr, err := quadRoots(sq, algebraic)
		if err != nil {
			return nil, err
		}
		roots = append(roots, qr...)
	case 4:
		fa, fb, ok := quarticSplit(sq)
		if !ok {
			return nil, fault.Algorithmf("irreducible residue polynomial of degree 4")
		}
		for _, f := range []ratPoly{fa, fb} {
			qr, err := quadRoots(f, algebraic)
			if err != nil {
				return nil, err
			}
			roots = append(roots, qr...)
		}
	default:
		return nil, fault.Algorithmf("irreducible residue polynomial of degree %d", rpDeg(sq))
	}
	return roots, nil
}

// quadRoots solves a rational quadratic, adjoining a conjugate root
// pair when the discriminant is not a perfect square.
func quadRoots(sq ratPoly, algebraic bool) ([]Const, error) {
	p := new(big.Rat).Quo(sq[1], sq[2])
	q := new(big.Rat).Quo(sq[0], sq[2])
	disc := new(big.Rat).Mul(p, p)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), q))
	if s, ok := ratSqrtQ(disc); ok {
		half := big.NewRat(1, 2)
		r1 := new(big.Rat).Sub(s, p)
		r1.Mul(r1, half)
		r2 := new(big.Rat).Neg(s)
		r2.Sub(r2, p)
		r2.Mul(r2, half)
		return []Const{FromRat(r1), FromRat(r2)}, nil
	}
	if !algebraic {
		return nil, fault.ErrNeedAlgebraic
	}
	root := NewRoot([]*big.Rat{q, p, big.NewRat(1, 1)})
	a := Alpha(root)
	return []Const{a, a.Conj()}, nil
}

// quarticSplit factors a squarefree rational quartic with no rational
// roots into two monic rational quadratics. Residue polynomials of
// sums of rational integrands are products of the summands' residue
// polynomials, so reducible quartics turn up routinely. The depressed
// form y^4 + p y^2 + q y + r splits as (y^2 + u y + v)(y^2 - u y + w)
// exactly when the cubic resolvent z^3 + 2p z^2 + (p^2 - 4r) z - q^2
// has a rational root z = u^2 that is a perfect square.
func quarticSplit(f ratPoly) (ratPoly, ratPoly, bool) {
	inv := new(big.Rat).Inv(f[4])
	a3 := new(big.Rat).Mul(f[3], inv)
	a2 := new(big.Rat).Mul(f[2], inv)
	a1 := new(big.Rat).Mul(f[1], inv)
	a0 := new(big.Rat).Mul(f[0], inv)

	// Shift y = c + a3/4 to kill the cubic term.
	s := new(big.Rat).Mul(a3, big.NewRat(1, 4))
	s2 := new(big.Rat).Mul(s, s)
	p := new(big.Rat).Sub(a2, new(big.Rat).Mul(big.NewRat(6, 1), s2))
	q := new(big.Rat).Mul(big.NewRat(8, 1), new(big.Rat).Mul(s2, s))
	q.Sub(q, new(big.Rat).Mul(new(big.Rat).Mul(big.NewRat(2, 1), a2), s))
	q.Add(q, a1)
	r := new(big.Rat).Mul(a2, s2)
	r.Sub(r, new(big.Rat).Mul(a1, s))
	r.Add(r, a0)
	r.Sub(r, new(big.Rat).Mul(big.NewRat(3, 1), new(big.Rat).Mul(s2, s2)))

	half := big.NewRat(1, 2)
	if q.Sign() == 0 {
		// Biquadratic y^4 + p y^2 + r.
		disc := new(big.Rat).Mul(p, p)
		disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), r))
		if d, ok := ratSqrtQ(disc); ok {
			v1 := new(big.Rat).Sub(p, d)
			v1.Mul(v1, half)
			v2 := new(big.Rat).Add(p, d)
			v2.Mul(v2, half)
			return unshiftQuad(new(big.Rat), v1, s), unshiftQuad(new(big.Rat), v2, s), true
		}
		// (y^2 + u y + v)(y^2 - u y + v) with v^2 = r, u^2 = 2v - p.
		if sv, ok := ratSqrtQ(r); ok {
			for _, v := range []*big.Rat{sv, new(big.Rat).Neg(sv)} {
				u2 := new(big.Rat).Add(v, v)
				u2.Sub(u2, p)
				if u, ok := ratSqrtQ(u2); ok && u.Sign() != 0 {
					return unshiftQuad(u, v, s), unshiftQuad(new(big.Rat).Neg(u), v, s), true
				}
			}
		}
		return nil, nil, false
	}

	res := ratPoly{
		new(big.Rat).Neg(new(big.Rat).Mul(q, q)),
		new(big.Rat).Sub(new(big.Rat).Mul(p, p), new(big.Rat).Mul(big.NewRat(4, 1), r)),
		new(big.Rat).Add(p, p),
		big.NewRat(1, 1),
	}
	for _, cand := range rationalCandidates(res) {
		if cand.Sign() <= 0 || rpEval(res, cand).Sign() != 0 {
			continue
		}
		u, ok := ratSqrtQ(cand)
		if !ok {
			continue
		}
		qu := new(big.Rat).Quo(q, u)
		v := new(big.Rat).Add(p, cand)
		w := new(big.Rat).Add(v, qu)
		v.Sub(v, qu)
		v.Mul(v, half)
		w.Mul(w, half)
		return unshiftQuad(u, v, s), unshiftQuad(new(big.Rat).Neg(u), w, s), true
	}
	return nil, nil, false
}

// unshiftQuad undoes the depressing shift on a quadratic factor,
// mapping y^2 + u y + v back to the original variable c = y - s.
func unshiftQuad(u, v, s *big.Rat) ratPoly {
	b := new(big.Rat).Add(s, s)
	b.Add(b, u)
	c0 := new(big.Rat).Mul(s, s)
	c0.Add(c0, new(big.Rat).Mul(u, s))
	c0.Add(c0, v)
	return ratPoly{c0, b, big.NewRat(1, 1)}
}

func rpDeriv(p ratPoly) ratPoly {
	if len(p) < 2 {
		return nil
	}
	out := make(ratPoly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = new(big.Rat).Mul(p[i], big.NewRat(int64(i), 1))
	}
	return rpTrim(out)
}

func rpEval(p ratPoly, x *big.Rat) *big.Rat {
	out := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		out.Mul(out, x)
		out.Add(out, p[i])
	}
	return out
}

// rationalCandidates lists the candidates p/q of the rational root
// theorem for a polynomial with nonzero constant term.
func rationalCandidates(p ratPoly) []*big.Rat {
	a0, an := integerEnds(p)
	ps := divisors(a0)
	qs := divisors(an)
	out := make([]*big.Rat, 0, 2*len(ps)*len(qs))
	for _, num := range ps {
		for _, den := range qs {
			r := new(big.Rat).SetFrac(num, den)
			out = append(out, r, new(big.Rat).Neg(r))
		}
	}
	return out
}

// integerEnds clears denominators and content and returns the absolute
// constant and leading integer coefficients.
func integerEnds(p ratPoly) (a0, an *big.Int) {
	l := big.NewInt(1)
	for _, c := range p {
		l.Mul(l, new(big.Int).Div(c.Denom(), new(big.Int).GCD(nil, nil, l, c.Denom())))
	}
	ints := make([]*big.Int, len(p))
	for i, c := range p {
		v := new(big.Rat).Mul(c, new(big.Rat).SetInt(l))
		ints[i] = new(big.Int).Set(v.Num())
	}
	content := new(big.Int)
	for _, v := range ints {
		content.GCD(nil, nil, content, new(big.Int).Abs(v))
	}
	if content.Sign() > 0 {
		for _, v := range ints {
			v.Div(v, content)
		}
	}
	a0 = new(big.Int).Abs(ints[0])
	an = new(big.Int).Abs(ints[len(ints)-1])
	return a0, an
}

func divisors(n *big.Int) []*big.Int {
	out := []*big.Int{}
	if n.Sign() == 0 {
		return out
	}
	i := big.NewInt(1)
	sq := new(big.Int)
	lim := big.NewInt(divisorCap)
	rem := new(big.Int)
	for sq.Mul(i, i); sq.Cmp(n) <= 0 && i.Cmp(lim) <= 0; sq.Mul(i, i) {
		q, r := new(big.Int).QuoRem(n, i, rem)
		if r.Sign() == 0 {
			out = append(out, new(big.Int).Set(i), q)
		}
		i = new(big.Int).Add(i, big.NewInt(1))
	}
	return out
}

// ratSqrtQ returns the exact square root of r when numerator and
// denominator are perfect squares.
func ratSqrtQ(r *big.Rat) (*big.Rat, bool) {
	if r.Sign() < 0 {
		return nil, false
	}
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
