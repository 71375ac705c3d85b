package tower

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"risch/expr"
	"risch/internal/algebra"
	"risch/internal/fault"
)

func genDescs(tw *Tower) []string {
	out := make([]string, len(tw.Gens))
	for i, g := range tw.Gens {
		out[i] = g.Kind.String() + " " + g.Arg.String()
	}
	return out
}

func buildFor(t *testing.T, src string) *Tower {
	t.Helper()
	e, err := Rewrite(expr.MustParse(src), "x")
	require.NoError(t, err)
	terms, err := Terms(e, "x")
	require.NoError(t, err)
	tw, err := Build(terms, "x", false)
	require.NoError(t, err)
	return tw
}

// ============================================================
// Classification
// ============================================================

func TestTerms_InnermostFirst(t *testing.T) {
	e := expr.MustParse("log(log(x)) + exp(x)")
	terms, err := Terms(e, "x")
	require.NoError(t, err)
	require.Len(t, terms, 4)
	require.Equal(t, KindIdentity, terms[0].Kind)
	require.Equal(t, KindLog, terms[1].Kind)
	require.Equal(t, "x", terms[1].Arg.String())
	require.Equal(t, KindLog, terms[2].Kind)
	require.Equal(t, "log(x)", terms[2].Arg.String())
	require.Equal(t, KindExp, terms[3].Kind)
}

func TestTerms_Dedup(t *testing.T) {
	e := expr.MustParse("exp(x)*exp(x) + exp(x)")
	terms, err := Terms(e, "x")
	require.NoError(t, err)
	require.Len(t, terms, 2)
}

func TestTerms_Rejections(t *testing.T) {
	cases := []string{
		"x^x",       // variable exponent
		"x^(1/2)",   // algebraic power
		"sin(x)",    // not admitted without the front-end rewrite
		"arctan(x)", // not admitted at all
	}
	for _, src := range cases {
		_, err := Terms(expr.MustParse(src), "x")
		require.ErrorIs(t, err, fault.ErrUnsupported, src)
	}
}

// ============================================================
// Tower construction and derivation
// ============================================================

func TestBuild_LogDerivative(t *testing.T) {
	tw := buildFor(t, "log(x)")
	require.Equal(t, 2, tw.Height())
	// t1' = 1/x.
	want := algebra.One().Div(algebra.Gen(0))
	require.True(t, tw.Gen(1).DGen.Equal(want))
	require.True(t, tw.DerivElem(algebra.Gen(1)).Equal(want))
}

func TestBuild_ExpDerivative(t *testing.T) {
	tw := buildFor(t, "exp(x^2)")
	require.Equal(t, 2, tw.Height())
	// t1' = 2x * t1.
	want := algebra.Gen(0).ScaleC(algebra.QInt(2)).Mul(algebra.Gen(1))
	require.True(t, tw.Gen(1).DGen.Equal(want))
}

func TestBuild_Deterministic(t *testing.T) {
	a := buildFor(t, "exp(x) + log(x)*log(log(x))")
	b := buildFor(t, "exp(x) + log(x)*log(log(x))")
	if diff := cmp.Diff(genDescs(a), genDescs(b)); diff != "" {
		t.Fatalf("tower order differs between runs (-first +second):\n%s", diff)
	}
}

func TestDeriv_Polynomial(t *testing.T) {
	tw := buildFor(t, "x")
	// D(x^2 + 3x) = 2x + 3.
	x := algebra.Gen(0)
	e := x.Mul(x).Add(x.ScaleC(algebra.QInt(3)))
	want := x.ScaleC(algebra.QInt(2)).Add(algebra.IntElem(3))
	require.True(t, tw.DerivElem(e).Equal(want))
}

func TestDeriv_Quotient(t *testing.T) {
	tw := buildFor(t, "x")
	// D(1/x) = -1/x^2.
	x := algebra.Gen(0)
	want := algebra.IntElem(-1).Div(x.Mul(x))
	require.True(t, tw.DerivElem(algebra.One().Div(x)).Equal(want))
}

func TestToElem_Rational(t *testing.T) {
	tw := buildFor(t, "x")
	el, err := tw.ToElem(expr.MustParse("(x^2 + 1)/(x - 1)"))
	require.NoError(t, err)
	x := algebra.Gen(0)
	want := x.Mul(x).Add(algebra.One()).Div(x.Sub(algebra.One()))
	require.True(t, el.Equal(want))
}

func TestToElem_FreeParameter(t *testing.T) {
	tw := buildFor(t, "x")
	_, err := tw.ToElem(expr.MustParse("a*x"))
	require.ErrorIs(t, err, fault.ErrUnsupported)
}

// ============================================================
// Front-end rewriting
// ============================================================

func TestRewrite_Hyperbolic(t *testing.T) {
	out, err := Rewrite(expr.MustParse("sinh(x) + cosh(x)"), "x")
	require.NoError(t, err)
	s := out.String()
	require.NotContains(t, s, "sinh")
	require.NotContains(t, s, "cosh")
	require.Contains(t, s, "exp(x)")
}

func TestRewrite_ConstantBasePower(t *testing.T) {
	out, err := Rewrite(expr.MustParse("2^x"), "x")
	require.NoError(t, err)
	require.Contains(t, out.String(), "exp(")
	require.Contains(t, out.String(), "log(2)")
}

func TestRewrite_CommensurableTrig(t *testing.T) {
	out, err := Rewrite(expr.MustParse("sin(2*x)*cos(3*x)"), "x")
	require.NoError(t, err)
	s := out.String()
	require.NotContains(t, s, "sin")
	require.NotContains(t, s, "cos")
	require.Contains(t, s, "tan(1/2*x)")
}

func TestRewrite_IncommensurableTrig(t *testing.T) {
	out, err := Rewrite(expr.MustParse("sin(x) + sin(x^2)"), "x")
	require.NoError(t, err)
	s := out.String()
	require.NotContains(t, s, "sin")
	require.Contains(t, s, "exp(")
}

func TestRewrite_NestedTrig(t *testing.T) {
	_, err := Rewrite(expr.MustParse("sin(cos(x))"), "x")
	require.ErrorIs(t, err, fault.ErrUnsupported)
}

func TestRewrite_LeavesPlainInputAlone(t *testing.T) {
	out, err := Rewrite(expr.MustParse("x^2 + exp(x)"), "x")
	require.NoError(t, err)
	require.True(t, strings.Contains(out.String(), "exp(x)"))
}
