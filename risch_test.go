package risch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"risch/expr"
	"risch/internal/fault"
)

// samplePoints avoids poles and branch points of the test integrands.
var samplePoints = []*expr.Num{
	expr.F(1, 3), expr.F(1, 2), expr.F(5, 4), expr.F(7, 3),
}

// checkDerivative evaluates d(value)/dx against the integrand at
// rational sample points.
func checkDerivative(t *testing.T, src string, value expr.Expr) {
	t.Helper()
	f := expr.MustParse(src).Simplify()
	d := value.Diff("x")
	for _, pt := range samplePoints {
		fv, ok := f.Sub("x", pt).Eval()
		require.True(t, ok, "integrand at %s", pt)
		dv, ok := d.Sub("x", pt).Eval()
		require.True(t, ok, "derivative at %s", pt)
		tol := 1e-9 * math.Max(1, math.Abs(fv))
		require.InDelta(t, fv, dv, tol, "%s at x = %s", src, pt)
	}
}

func integrateClosed(t *testing.T, src string) Result {
	t.Helper()
	res, err := IntegrateString(src, "x", nil)
	require.NoError(t, err)
	require.True(t, res.Closed(), "expected a closed form for %s, got %s", src, res.Value)
	return res
}

// ============================================================
// Closed forms
// ============================================================

func TestIntegrate_RationalWithAtan(t *testing.T) {
	// (1/2) log(x^2 + 2) + atan(x)
	res := integrateClosed(t, "(x^3 + x^2 + x + 2)/(x^4 + 3*x^2 + 2)")
	checkDerivative(t, "(x^3 + x^2 + x + 2)/(x^4 + 3*x^2 + 2)", res.Value)
}

func TestIntegrate_Atan(t *testing.T) {
	res := integrateClosed(t, "1/(x^2 + 1)")
	require.True(t, res.Value.Equal(expr.AtanOf(expr.S("x"))),
		"got %s", res.Value)
}

func TestIntegrate_LogLog(t *testing.T) {
	res := integrateClosed(t, "1/(x*log(x))")
	require.True(t, res.Value.Equal(expr.LogOf(expr.LogOf(expr.S("x")))),
		"got %s", res.Value)
}

func TestIntegrate_LogisticNumerator(t *testing.T) {
	res := integrateClosed(t, "exp(x)/(1 + exp(x))")
	want := expr.LogOf(expr.AddOf(expr.N(1), expr.ExpOf(expr.S("x"))))
	require.True(t, res.Value.Equal(want), "got %s", res.Value)
}

func TestIntegrate_TrigRational(t *testing.T) {
	res := integrateClosed(t, "sin(x)/(1 + cos(x)^2)")
	checkDerivative(t, "sin(x)/(1 + cos(x)^2)", res.Value)
}

func TestIntegrate_SinSquared(t *testing.T) {
	res := integrateClosed(t, "sin(x)^2")
	checkDerivative(t, "sin(x)^2", res.Value)
}

func TestIntegrate_CosSquared(t *testing.T) {
	res := integrateClosed(t, "cos(x)^2")
	checkDerivative(t, "cos(x)^2", res.Value)
}

func TestIntegrate_SinTimesCos(t *testing.T) {
	res := integrateClosed(t, "sin(x)*cos(x)")
	checkDerivative(t, "sin(x)*cos(x)", res.Value)
}

func TestIntegrate_Hyperbolic(t *testing.T) {
	res := integrateClosed(t, "sinh(x)")
	checkDerivative(t, "sinh(x)", res.Value)
}

func TestIntegrate_MixedTower(t *testing.T) {
	res := integrateClosed(t, "log(x) + x*exp(x^2) + 1/x")
	checkDerivative(t, "log(x) + x*exp(x^2) + 1/x", res.Value)
}

// ============================================================
// Partial results and degradation
// ============================================================

func TestIntegrate_Gaussian(t *testing.T) {
	res, err := IntegrateString("exp(x^2)", "x", nil)
	require.NoError(t, err)
	require.False(t, res.Closed())
	require.True(t, res.Residual.Equal(expr.ExpOf(expr.PowOf(expr.S("x"), expr.N(2)))),
		"residual %s", res.Residual)
	_, isIntegral := res.Value.(*expr.Integral)
	require.True(t, isIntegral, "value %s", res.Value)
}

func TestIntegrate_PartialSum(t *testing.T) {
	// The integrable summand comes out, exp(x^2) stays inside.
	res, err := IntegrateString("exp(x^2) + x", "x", nil)
	require.NoError(t, err)
	require.False(t, res.Closed())
	require.True(t, res.Residual.Equal(expr.ExpOf(expr.PowOf(expr.S("x"), expr.N(2)))))
	require.True(t, expr.Contains(res.Value, "x"))
}

func TestIntegrate_UnsupportedDegrades(t *testing.T) {
	res, err := IntegrateString("x^x", "x", nil)
	require.NoError(t, err)
	require.False(t, res.Closed())
	require.True(t, res.Residual.Equal(expr.MustParse("x^x").Simplify()))
}

func TestIntegrate_UnsupportedStrict(t *testing.T) {
	opts := &Options{}
	_, err := IntegrateString("x^x", "x", opts)
	require.ErrorIs(t, err, fault.ErrUnsupported)
}

// ============================================================
// Constant field handling
// ============================================================

func TestIntegrate_AlgebraicUpFront(t *testing.T) {
	opts := &Options{UseAlgebraicNumbers: true}
	res, err := IntegrateString("1/(x^2 + 1)", "x", opts)
	require.NoError(t, err)
	require.True(t, res.Closed())
	require.True(t, res.Value.Equal(expr.AtanOf(expr.S("x"))))
}

func TestIntegrate_TwoQuadraticExtensions(t *testing.T) {
	// The residue polynomial is a product of two irrational quadratics;
	// the single restart covers both conjugate pairs and the result
	// still closes.
	res := integrateClosed(t, "1/(x^2 + 1) + 1/(x^2 + 3)")
	checkDerivative(t, "1/(x^2 + 1) + 1/(x^2 + 3)", res.Value)
}

func TestIntegrate_RepeatedQuadraticFactor(t *testing.T) {
	// -1/x - x/(2(x^2+1)) - (3/2) atan(x)
	res := integrateClosed(t, "1/(x^2*(x^2 + 1)^2)")
	checkDerivative(t, "1/(x^2*(x^2 + 1)^2)", res.Value)
}

// ============================================================
// Entry points
// ============================================================

func TestIntegrateString_ParseError(t *testing.T) {
	_, err := IntegrateString("1/(", "x", nil)
	require.Error(t, err)
}

func TestIntegrate_Polynomial(t *testing.T) {
	res := integrateClosed(t, "3*x^2")
	require.True(t, res.Value.Equal(expr.PowOf(expr.S("x"), expr.N(3))),
		"got %s", res.Value)
}
