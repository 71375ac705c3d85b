package algebra

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"risch/internal/fault"
)

// intPoly builds a polynomial in generator 0 with integer coefficients
// in ascending order.
func intPoly(cs ...int64) *Poly {
	co := make([]Const, len(cs))
	for i, c := range cs {
		co[i] = QInt(c)
	}
	return NewPolyC(0, co...)
}

// ============================================================
// Constants
// ============================================================

func TestConst_RationalArithmetic(t *testing.T) {
	a := QFrac(1, 2)
	b := QFrac(1, 3)
	require.Equal(t, "5/6", a.Add(b).String())
	require.Equal(t, "1/6", a.Mul(b).String())
	require.Equal(t, "3/2", a.Div(b).String())
	require.True(t, a.Sub(a).IsZero())
	require.True(t, a.Div(a).IsOne())
}

func TestConst_QuadraticExtension(t *testing.T) {
	// alpha = i, a root of c^2 + 1.
	i := Alpha(ImagRoot())

	sq := i.Mul(i)
	require.True(t, sq.IsRational())
	r, _ := sq.Rat()
	require.Equal(t, "-1", r.RatString())

	// 1/i = -i.
	require.True(t, i.Inv().Equal(i.Neg()))

	// (1+i)(1-i) = 2 demotes to a rational.
	one := QInt(1)
	prod := one.Add(i).Mul(one.Sub(i))
	require.True(t, prod.IsRational())
	r, _ = prod.Rat()
	require.Equal(t, "2", r.RatString())
}

func TestConst_Conj(t *testing.T) {
	// Roots of c^2 + c + 1: alpha and -1 - alpha.
	root := NewRoot([]*big.Rat{big.NewRat(1, 1), big.NewRat(1, 1), big.NewRat(1, 1)})
	a := Alpha(root)
	c := a.Conj()

	// alpha + conj(alpha) = -p, alpha * conj(alpha) = q.
	sum := a.Add(c)
	require.True(t, sum.IsRational())
	r, _ := sum.Rat()
	require.Equal(t, "-1", r.RatString())

	prod := a.Mul(c)
	require.True(t, prod.IsRational())
	r, _ = prod.Rat()
	require.Equal(t, "1", r.RatString())

	require.Equal(t, "-3", root.Disc().RatString())
}

func TestConst_MixedExtensionsPanic(t *testing.T) {
	a := Alpha(ImagRoot())
	b := Alpha(NewRoot([]*big.Rat{big.NewRat(-2, 1), new(big.Rat), big.NewRat(1, 1)}))
	require.Panics(t, func() { a.Add(b) })
}

// ============================================================
// Polynomials
// ============================================================

func TestPoly_DivMod(t *testing.T) {
	num := intPoly(-1, 0, 1) // x^2 - 1
	den := intPoly(-1, 1)    // x - 1
	quo, rem := num.DivMod(den)
	require.True(t, rem.IsZero())
	require.True(t, quo.Equal(intPoly(1, 1)))

	_, rem = intPoly(1, 0, 1).DivMod(den)
	require.True(t, rem.Equal(intPoly(2)))
}

func TestPoly_GCD(t *testing.T) {
	a := intPoly(-1, 0, 1) // (x-1)(x+1)
	b := intPoly(-2, 1, 1) // (x-1)(x+2)
	g := GCD(a, b)
	require.True(t, g.Equal(intPoly(-1, 1)))

	// Coprime inputs give the unit gcd.
	require.Equal(t, 0, GCD(intPoly(-1, 1), intPoly(1, 1)).Deg())
}

func TestPoly_ExtGCD(t *testing.T) {
	a := intPoly(0, 1)  // x
	b := intPoly(1, 1)  // x + 1
	g, s, tt := ExtGCD(a, b)
	require.Equal(t, 0, g.Deg())
	require.True(t, s.Mul(a).Add(tt.Mul(b)).Equal(g))
}

func TestPoly_ModInverse(t *testing.T) {
	inv, err := ModInverse(intPoly(0, 1), intPoly(1, 0, 1)) // x mod x^2+1
	require.NoError(t, err)
	// x * (-x) = -x^2 = 1 mod x^2+1.
	require.True(t, inv.Mul(intPoly(0, 1)).Mod(intPoly(1, 0, 1)).Equal(intPoly(1)))

	_, err = ModInverse(intPoly(-1, 1), intPoly(-1, 0, 1))
	require.Error(t, err)
}

func TestPoly_Squarefree(t *testing.T) {
	// (x+1)^2 (x+2)
	p := intPoly(1, 1).Pow(2).Mul(intPoly(2, 1))
	fs := p.Squarefree()
	require.Len(t, fs, 2)
	require.Equal(t, 1, fs[0].Mult)
	require.True(t, fs[0].P.Equal(intPoly(2, 1)))
	require.Equal(t, 2, fs[1].Mult)
	require.True(t, fs[1].P.Equal(intPoly(1, 1)))
}

func TestPoly_Resultant(t *testing.T) {
	// Res(x^2 - 1, x - 2) = (2^2 - 1) = 3.
	res := Resultant(intPoly(-1, 0, 1), intPoly(-2, 1))
	require.True(t, res.Equal(IntElem(3)))

	// Shared root gives zero.
	require.True(t, Resultant(intPoly(-1, 0, 1), intPoly(-1, 1)).IsZero())
}

func TestPoly_PartialFractions(t *testing.T) {
	// 1/(x(x+1)) = 1/x - 1/(x+1)
	fs := []SqfFactor{{P: intPoly(0, 1), Mult: 1}, {P: intPoly(1, 1), Mult: 1}}
	nums := PartialFractions(intPoly(1), fs)
	require.Len(t, nums, 2)
	require.True(t, nums[0].Equal(intPoly(1)))
	require.True(t, nums[1].Equal(intPoly(-1)))
}

// ============================================================
// Field elements
// ============================================================

func TestElem_Normalize(t *testing.T) {
	// (x^2 - 1)/(x - 1) reduces to x + 1.
	e := intPoly(-1, 0, 1).Elem().Div(intPoly(-1, 1).Elem())
	require.True(t, e.Equal(intPoly(1, 1).Elem()))

	p, ok := e.AsPoly(0)
	require.True(t, ok)
	require.True(t, p.Equal(intPoly(1, 1)))

	// A quotient of equal polynomials demotes to the unit constant.
	require.True(t, intPoly(3, 7).Elem().Div(intPoly(3, 7).Elem()).IsOne())
}

func TestElem_ProperFraction(t *testing.T) {
	e := One().Div(intPoly(1, 1).Elem()) // 1/(x+1)
	_, ok := e.AsPoly(0)
	require.False(t, ok)

	num, den := e.NumDen(1)
	require.Equal(t, 0, num.Deg())
	require.True(t, den.Equal(intPoly(1, 1)))
}

func TestElem_Levels(t *testing.T) {
	x := Gen(0)
	u := Gen(1)
	e := x.Mul(u).Add(One()) // x*t1 + 1 at level 2
	require.Equal(t, 2, e.Level())

	p, ok := e.AsPoly(1)
	require.True(t, ok)
	require.Equal(t, 1, p.Deg())
	require.True(t, p.Coeff(1).Equal(x))
	require.True(t, p.Coeff(0).IsOne())
}

// ============================================================
// Root finding
// ============================================================

func TestFindRoots_Rational(t *testing.T) {
	// x^2 - 3x + 2 = (x-1)(x-2)
	roots, err := FindRoots([]Const{QInt(2), QInt(-3), QInt(1)}, false)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.True(t, roots[0].Equal(QInt(1)) || roots[1].Equal(QInt(1)))
	require.True(t, roots[0].Equal(QInt(2)) || roots[1].Equal(QInt(2)))
}

func TestFindRoots_FractionAndZero(t *testing.T) {
	// x(2x - 1) = 2x^2 - x
	roots, err := FindRoots([]Const{QInt(0), QInt(-1), QInt(2)}, false)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.True(t, roots[0].Equal(QInt(0)))
	require.True(t, roots[1].Equal(QFrac(1, 2)))
}

func TestFindRoots_Quadratic(t *testing.T) {
	// x^2 + 1 has no rational roots.
	_, err := FindRoots([]Const{QInt(1), QInt(0), QInt(1)}, false)
	require.ErrorIs(t, err, fault.ErrNeedAlgebraic)

	roots, err := FindRoots([]Const{QInt(1), QInt(0), QInt(1)}, true)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.False(t, roots[0].IsRational())
	require.True(t, roots[1].Equal(roots[0].Conj()))
	require.True(t, roots[0].Add(roots[1]).IsZero())
}

func TestFindRoots_HighDegreeResidue(t *testing.T) {
	// x^3 - 2 is irreducible over Q.
	_, err := FindRoots([]Const{QInt(-2), QInt(0), QInt(0), QInt(1)}, true)
	require.True(t, errors.Is(err, fault.ErrAlgorithm))
}

func TestFindRoots_QuarticBiquadratic(t *testing.T) {
	// (x^2 + 1/4)(x^2 + 1/12) = x^4 + x^2/3 + 1/48
	cs := []Const{QFrac(1, 48), QInt(0), QFrac(1, 3), QInt(0), QInt(1)}
	_, err := FindRoots(cs, false)
	require.ErrorIs(t, err, fault.ErrNeedAlgebraic)

	roots, err := FindRoots(cs, true)
	require.NoError(t, err)
	require.Len(t, roots, 4)
	require.True(t, roots[1].Equal(roots[0].Conj()))
	require.True(t, roots[3].Equal(roots[2].Conj()))
	require.True(t, roots[0].Mul(roots[1]).Equal(QFrac(1, 12)))
	require.True(t, roots[2].Mul(roots[3]).Equal(QFrac(1, 4)))
}

func TestFindRoots_QuarticResolvent(t *testing.T) {
	// (x^2 + x + 1)(x^2 + 1) = x^4 + x^3 + 2x^2 + x + 1
	cs := []Const{QInt(1), QInt(1), QInt(2), QInt(1), QInt(1)}
	roots, err := FindRoots(cs, true)
	require.NoError(t, err)
	require.Len(t, roots, 4)
	require.True(t, roots[0].Add(roots[1]).Equal(QInt(-1)))
	require.True(t, roots[0].Mul(roots[1]).Equal(QInt(1)))
	require.True(t, roots[2].Add(roots[3]).IsZero())
	require.True(t, roots[2].Mul(roots[3]).Equal(QInt(1)))
}

func TestFindRoots_IrreducibleQuartic(t *testing.T) {
	// x^4 + 1 has no rational quadratic factors.
	_, err := FindRoots([]Const{QInt(1), QInt(0), QInt(0), QInt(0), QInt(1)}, true)
	require.True(t, errors.Is(err, fault.ErrAlgorithm))
}
