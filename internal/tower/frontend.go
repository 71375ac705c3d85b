package tower

import (
	"math/big"

	"risch/expr"
	"risch/internal/fault"
)

// Rewrite brings an integrand into the exp/log/tan class: hyperbolic
// functions become exponentials, powers with constant rational base
// and variable exponent become exp of a product, and trigonometric
// functions are eliminated through either the half-angle tangent
// substitution or complex exponentials.
//
// When every trigonometric argument is a rational multiple of one
// common core, the whole family is expressed in tan of half the
// greatest common subangle. Otherwise all trigonometric functions go
// through exp(i*u); the choice is all or nothing so that one pass
// decides the tower.
func Rewrite(e expr.Expr, varName string) (expr.Expr, error) {
	e = rewriteBasic(e.Simplify(), varName)
	out, err := rewriteTrig(e, varName)
	if err != nil {
		return nil, err
	}
	return out.Simplify(), nil
}

// rewriteBasic handles hyperbolics and constant-base powers.
func rewriteBasic(e expr.Expr, varName string) expr.Expr {
	switch v := e.(type) {
	case *expr.Add:
		out := make([]expr.Expr, len(v.Terms()))
		for i, t := range v.Terms() {
			out[i] = rewriteBasic(t, varName)
		}
		return expr.AddOf(out...)
	case *expr.Mul:
		out := make([]expr.Expr, len(v.Factors()))
		for i, f := range v.Factors() {
			out[i] = rewriteBasic(f, varName)
		}
		return expr.MulOf(out...)
	case *expr.Pow:
		base := rewriteBasic(v.Base(), varName)
		exp := rewriteBasic(v.Exp(), varName)
		if bn, ok := base.(*expr.Num); ok && expr.Contains(exp, varName) {
			if bn.Rat().Sign() > 0 {
				// b^u = exp(u*log b)
				return expr.ExpOf(expr.MulOf(exp, expr.LogOf(bn)))
			}
		}
		return expr.PowOf(base, exp)
	case *expr.Func:
		arg := rewriteBasic(v.Arg(), varName)
		switch v.Name() {
		case "sinh":
			return expr.MulOf(expr.F(1, 2), expr.AddOf(
				expr.ExpOf(arg),
				expr.MulOf(expr.N(-1), expr.ExpOf(expr.MulOf(expr.N(-1), arg))),
			))
		case "cosh":
			return expr.MulOf(expr.F(1, 2), expr.AddOf(
				expr.ExpOf(arg),
				expr.ExpOf(expr.MulOf(expr.N(-1), arg)),
			))
		case "tanh":
			s := rewriteBasic(expr.SinhOf(arg), varName)
			c := rewriteBasic(expr.CoshOf(arg), varName)
			return expr.MulOf(s, expr.PowOf(c, expr.N(-1)))
		}
		return expr.FuncOf(v.Name(), arg)
	case *expr.Integral:
		return expr.IntegralOf(rewriteBasic(v.Integrand(), varName), v.Var())
	}
	return e
}

// rewriteTrig eliminates sin, cos and tan of variable arguments.
func rewriteTrig(e expr.Expr, varName string) (expr.Expr, error) {
	args := []expr.Expr{}
	if err := trigArgs(e, varName, &args); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return e, nil
	}

	cores := make([]expr.Expr, len(args))
	mults := make([]*big.Rat, len(args))
	for i, a := range args {
		mults[i], cores[i] = splitAngle(a)
	}
	commensurable := true
	for i := 1; i < len(cores); i++ {
		if !cores[i].Equal(cores[0]) {
			commensurable = false
			break
		}
	}

	repl := map[int][3]expr.Expr{} // arg index -> sin, cos, tan replacement
	if commensurable {
		g := ratGCD(mults)
		theta := expr.MulOf(expr.R(g), cores[0])
		tau := expr.TanOf(expr.MulOf(expr.F(1, 2), theta))
		den := expr.PowOf(expr.AddOf(expr.N(1), expr.PowOf(tau, expr.N(2))), expr.N(-1))
		s1 := expr.MulOf(expr.N(2), tau, den)
		c1 := expr.MulOf(expr.AddOf(expr.N(1), expr.MulOf(expr.N(-1), expr.PowOf(tau, expr.N(2)))), den)
		for i := range args {
			m := new(big.Rat).Quo(mults[i], g)
			if !m.IsInt() {
				return nil, fault.Algorithmf("angle multiple %s is not integral", m.RatString())
			}
			sm, cm := angleMultiple(s1, c1, m.Num().Int64())
			repl[i] = [3]expr.Expr{sm, cm, expr.MulOf(sm, expr.PowOf(cm, expr.N(-1)))}
		}
	} else {
		for i, a := range args {
			ei := expr.ExpOf(expr.MulOf(expr.I(), a))
			inv := expr.PowOf(ei, expr.N(-1))
			sin := expr.MulOf(expr.F(-1, 2), expr.I(),
				expr.AddOf(ei, expr.MulOf(expr.N(-1), inv)))
			cos := expr.MulOf(expr.F(1, 2), expr.AddOf(ei, inv))
			repl[i] = [3]expr.Expr{sin, cos, expr.MulOf(sin, expr.PowOf(cos, expr.N(-1)))}
		}
	}
	return substTrig(e, varName, args, repl), nil
}

// trigArgs collects the distinct variable-dependent arguments of sin,
// cos and tan in traversal order.
func trigArgs(e expr.Expr, varName string, out *[]expr.Expr) error {
	switch v := e.(type) {
	case *expr.Add:
		for _, t := range v.Terms() {
			if err := trigArgs(t, varName, out); err != nil {
				return err
			}
		}
	case *expr.Mul:
		for _, f := range v.Factors() {
			if err := trigArgs(f, varName, out); err != nil {
				return err
			}
		}
	case *expr.Pow:
		if err := trigArgs(v.Base(), varName, out); err != nil {
			return err
		}
		return trigArgs(v.Exp(), varName, out)
	case *expr.Func:
		switch v.Name() {
		case "sin", "cos", "tan":
			arg := v.Arg().Simplify()
			if !expr.Contains(arg, varName) {
				return nil
			}
			if hasTrig(arg) {
				return fault.Unsupportedf("nested trigonometric argument %s", arg)
			}
			for _, seen := range *out {
				if seen.Equal(arg) {
					return nil
				}
			}
			*out = append(*out, arg)
			return nil
		}
		return trigArgs(v.Arg(), varName, out)
	case *expr.Integral:
		return trigArgs(v.Integrand(), varName, out)
	}
	return nil
}

func hasTrig(e expr.Expr) bool {
	switch v := e.(type) {
	case *expr.Add:
		for _, t := range v.Terms() {
			if hasTrig(t) {
				return true
			}
		}
	case *expr.Mul:
		for _, f := range v.Factors() {
			if hasTrig(f) {
				return true
			}
		}
	case *expr.Pow:
		return hasTrig(v.Base()) || hasTrig(v.Exp())
	case *expr.Func:
		switch v.Name() {
		case "sin", "cos", "tan":
			return true
		}
		return hasTrig(v.Arg())
	}
	return false
}

// splitAngle separates a rational multiplier from an angle.
func splitAngle(a expr.Expr) (*big.Rat, expr.Expr) {
	if m, ok := a.(*expr.Mul); ok {
		coeff := new(big.Rat).SetInt64(1)
		rest := []expr.Expr{}
		for _, f := range m.Factors() {
			if n, isNum := f.(*expr.Num); isNum {
				coeff.Mul(coeff, n.Rat())
				continue
			}
			rest = append(rest, f)
		}
		if len(rest) > 0 && coeff.Sign() != 0 {
			return coeff, expr.MulOf(rest...)
		}
	}
	return big.NewRat(1, 1), a
}

// ratGCD returns gcd(numerators)/lcm(denominators) of nonzero
// rationals.
func ratGCD(rs []*big.Rat) *big.Rat {
	gn := new(big.Int)
	ld := big.NewInt(1)
	for _, r := range rs {
		n := new(big.Int).Abs(r.Num())
		gn.GCD(nil, nil, gn, n)
		d := r.Denom()
		g := new(big.Int).GCD(nil, nil, ld, d)
		ld.Mul(ld, new(big.Int).Div(d, g))
	}
	return new(big.Rat).SetFrac(gn, ld)
}

// angleMultiple returns sin(m*theta) and cos(m*theta) expressed
// through sin(theta) and cos(theta) by the addition formulas.
func angleMultiple(s1, c1 expr.Expr, m int64) (expr.Expr, expr.Expr) {
	neg := m < 0
	if neg {
		m = -m
	}
	sm, cm := expr.Expr(expr.N(0)), expr.Expr(expr.N(1))
	for i := int64(0); i < m; i++ {
		sm, cm = expr.AddOf(expr.MulOf(sm, c1), expr.MulOf(cm, s1)),
			expr.AddOf(expr.MulOf(cm, c1), expr.MulOf(expr.N(-1), expr.MulOf(sm, s1)))
	}
	if neg {
		sm = expr.MulOf(expr.N(-1), sm)
	}
	return sm, cm
}

// substTrig replaces collected trigonometric occurrences.
func substTrig(e expr.Expr, varName string, args []expr.Expr, repl map[int][3]expr.Expr) expr.Expr {
	switch v := e.(type) {
	case *expr.Add:
		out := make([]expr.Expr, len(v.Terms()))
		for i, t := range v.Terms() {
			out[i] = substTrig(t, varName, args, repl)
		}
		return expr.AddOf(out...)
	case *expr.Mul:
		out := make([]expr.Expr, len(v.Factors()))
		for i, f := range v.Factors() {
			out[i] = substTrig(f, varName, args, repl)
		}
		return expr.MulOf(out...)
	case *expr.Pow:
		return expr.PowOf(
			substTrig(v.Base(), varName, args, repl),
			substTrig(v.Exp(), varName, args, repl),
		)
	case *expr.Func:
		var slot int
		switch v.Name() {
		case "sin":
			slot = 0
		case "cos":
			slot = 1
		case "tan":
			slot = 2
		default:
			return expr.FuncOf(v.Name(), substTrig(v.Arg(), varName, args, repl))
		}
		arg := v.Arg().Simplify()
		for i, a := range args {
			if a.Equal(arg) {
				return repl[i][slot]
			}
		}
		return e
	case *expr.Integral:
		return expr.IntegralOf(substTrig(v.Integrand(), varName, args, repl), v.Var())
	}
	return e
}
