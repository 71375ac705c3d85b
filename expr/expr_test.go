package expr

import (
	"math"
	"testing"
)

// ============================================================
// Constants and symbols
// ============================================================

func TestNum_Fold(t *testing.T) {
	got := AddOf(N(2), N(3)).String()
	if got != "5" {
		t.Errorf("2+3 = %s, want 5", got)
	}
	got = MulOf(F(1, 2), N(4)).String()
	if got != "2" {
		t.Errorf("(1/2)*4 = %s, want 2", got)
	}
	got = AddOf(F(1, 3), F(1, 6)).String()
	if got != "1/2" {
		t.Errorf("1/3+1/6 = %s, want 1/2", got)
	}
}

func TestSym_Diff(t *testing.T) {
	x := S("x")
	if got := x.Diff("x").String(); got != "1" {
		t.Errorf("dx/dx = %s, want 1", got)
	}
	if got := x.Diff("y").String(); got != "0" {
		t.Errorf("dx/dy = %s, want 0", got)
	}
}

func TestAdd_CollectLikeTerms(t *testing.T) {
	x := S("x")
	got := AddOf(x, x, MulOf(N(3), x)).String()
	if got != "5*x" {
		t.Errorf("x+x+3x = %s, want 5*x", got)
	}
	got = AddOf(x, MulOf(N(-1), x)).String()
	if got != "0" {
		t.Errorf("x-x = %s, want 0", got)
	}
}

func TestMul_CombinePowers(t *testing.T) {
	x := S("x")
	got := MulOf(x, x).String()
	if got != "x^2" {
		t.Errorf("x*x = %s, want x^2", got)
	}
	got = MulOf(PowOf(x, N(3)), PowOf(x, N(-1))).String()
	if got != "x^2" {
		t.Errorf("x^3/x = %s, want x^2", got)
	}
	got = MulOf(N(0), x).String()
	if got != "0" {
		t.Errorf("0*x = %s, want 0", got)
	}
}

func TestPow_Rules(t *testing.T) {
	x := S("x")
	if got := PowOf(x, N(1)).String(); got != "x" {
		t.Errorf("x^1 = %s, want x", got)
	}
	if got := PowOf(x, N(0)).String(); got != "1" {
		t.Errorf("x^0 = %s, want 1", got)
	}
	if got := PowOf(N(2), N(10)).String(); got != "1024" {
		t.Errorf("2^10 = %s, want 1024", got)
	}
	if got := PowOf(N(2), N(-2)).String(); got != "1/4" {
		t.Errorf("2^-2 = %s, want 1/4", got)
	}
}

func TestPow_ExactSqrt(t *testing.T) {
	if got := SqrtOf(N(9)).String(); got != "3" {
		t.Errorf("sqrt(9) = %s, want 3", got)
	}
	if got := SqrtOf(F(1, 4)).String(); got != "1/2" {
		t.Errorf("sqrt(1/4) = %s, want 1/2", got)
	}
	// Non-squares stay symbolic.
	if _, ok := SqrtOf(N(2)).(*Pow); !ok {
		t.Errorf("sqrt(2) should stay a power, got %s", SqrtOf(N(2)))
	}
}

// ============================================================
// Differentiation
// ============================================================

func TestDiff_ProductRule(t *testing.T) {
	x := S("x")
	// d(x*exp(x)) = exp(x) + x*exp(x)
	d := MulOf(x, ExpOf(x)).Diff("x")
	want := AddOf(ExpOf(x), MulOf(x, ExpOf(x)))
	if !d.Equal(want) {
		t.Errorf("d(x e^x) = %s, want %s", d, want)
	}
}

func TestDiff_ChainRule(t *testing.T) {
	x := S("x")
	// d(log(x^2+1)) = 2x/(x^2+1)
	d := LogOf(AddOf(PowOf(x, N(2)), N(1))).Diff("x").Simplify()
	want := MulOf(N(2), x, PowOf(AddOf(PowOf(x, N(2)), N(1)), N(-1)))
	if !d.Equal(want) {
		t.Errorf("d log(x^2+1) = %s, want %s", d, want)
	}
}

func TestDiff_Tan(t *testing.T) {
	x := S("x")
	d := TanOf(x).Diff("x")
	want := AddOf(N(1), PowOf(TanOf(x), N(2)))
	if !d.Equal(want) {
		t.Errorf("d tan(x) = %s, want %s", d, want)
	}
}

func TestIntegral_Diff(t *testing.T) {
	x := S("x")
	in := IntegralOf(ExpOf(PowOf(x, N(2))), "x")
	if !in.Diff("x").Equal(ExpOf(PowOf(x, N(2)))) {
		t.Errorf("differentiating an integral should return the integrand, got %s", in.Diff("x"))
	}
	if got := in.Diff("y").String(); got != "Integral(0, x)" {
		t.Errorf("d/dy of an x-integral = %s", got)
	}
}

// ============================================================
// Substitution and evaluation
// ============================================================

func TestSub_Basic(t *testing.T) {
	x := S("x")
	e := AddOf(PowOf(x, N(2)), MulOf(N(3), x))
	got := e.Sub("x", N(2)).String()
	if got != "10" {
		t.Errorf("(x^2+3x)|x=2 = %s, want 10", got)
	}
}

func TestEval_Functions(t *testing.T) {
	e := ExpOf(N(0))
	v, ok := e.Eval()
	if !ok || v != 1 {
		t.Errorf("exp(0) = %v, want 1", v)
	}
	v, ok = LogOf(N(1)).Eval()
	if !ok || v != 0 {
		t.Errorf("log(1) = %v, want 0", v)
	}
	sin1 := SinOf(N(1))
	v, ok = sin1.Eval()
	if !ok || math.Abs(v-math.Sin(1)) > 1e-12 {
		t.Errorf("sin(1) = %v", v)
	}
	if _, ok := S("x").Eval(); ok {
		t.Error("a free symbol should not evaluate")
	}
	if _, ok := I().Eval(); ok {
		t.Error("the imaginary unit should not evaluate")
	}
}

// ============================================================
// Parsing
// ============================================================

func TestParse_RoundTrip(t *testing.T) {
	cases := []struct{ in, want string }{
		{"x^2 + 3*x + 1", "x^2 + 3*x + 1"},
		{"sin(x)/cos(x)", "sin(x)*cos(x)^(-1)"},
		{"-x", "-x"},
		{"ln(x)", "log(x)"},
		{"2^3", "8"},
		{"0.5*x", "1/2*x"},
		{"exp(x^2)", "exp(x^2)"},
	}
	for _, c := range cases {
		e, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if got := e.String(); got != c.want {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParse_Precedence(t *testing.T) {
	e := MustParse("1 + 2*x^2")
	want := AddOf(N(1), MulOf(N(2), PowOf(S("x"), N(2))))
	if !e.Equal(want) {
		t.Errorf("precedence: got %s, want %s", e, want)
	}
	// ^ binds tighter than unary minus on the left.
	e = MustParse("-x^2")
	want = MulOf(N(-1), PowOf(S("x"), N(2)))
	if !e.Equal(want) {
		t.Errorf("-x^2: got %s, want %s", e, want)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, bad := range []string{"", "x +", "(x", "foo(x)", "1..2"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

// ============================================================
// JSON
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	e := AddOf(MulOf(F(1, 2), LogOf(AddOf(PowOf(S("x"), N(2)), N(2)))), AtanOf(S("x")))
	data, err := ToJSON(e)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !back.Equal(e) {
		t.Errorf("round trip changed the expression: %s vs %s", back, e)
	}
}

func TestJSON_Integral(t *testing.T) {
	e := IntegralOf(ExpOf(PowOf(S("x"), N(2))), "x")
	data, err := ToJSON(e)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !back.Equal(e) {
		t.Errorf("round trip changed the integral: %s vs %s", back, e)
	}
}

// ============================================================
// Structure helpers
// ============================================================

func TestFreeSymbols(t *testing.T) {
	e := AddOf(MulOf(S("b"), S("a")), LogOf(S("c")))
	got := FreeSymbols(e)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("FreeSymbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FreeSymbols[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	e := ExpOf(MulOf(S("x"), S("y")))
	if !Contains(e, "x") || Contains(e, "z") {
		t.Errorf("Contains misreported for %s", e)
	}
}

func TestSimplify_LogExp(t *testing.T) {
	x := S("x")
	if got := LogOf(ExpOf(x)).String(); got != "x" {
		t.Errorf("log(exp(x)) = %s, want x", got)
	}
	if got := ExpOf(LogOf(x)).String(); got != "x" {
		t.Errorf("exp(log(x)) = %s, want x", got)
	}
}
