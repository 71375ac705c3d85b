package tower

import (
	"risch/expr"
	"risch/internal/fault"
)

// Terms extracts the ordered transcendental terms of e with respect
// to varName. The identity term comes first; function terms follow in
// the order of an innermost-first traversal, deduplicated, so every
// term's argument only refers to earlier terms. The input is expected
// to be in the exp/log/tan class already; see Rewrite.
func Terms(e expr.Expr, varName string) ([]Term, error) {
	out := []Term{{Kind: KindIdentity, Arg: expr.S(varName)}}
	if err := collectTerms(e.Simplify(), varName, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectTerms(e expr.Expr, varName string, out *[]Term) error {
	switch v := e.(type) {
	case *expr.Add:
		for _, t := range v.Terms() {
			if err := collectTerms(t, varName, out); err != nil {
				return err
			}
		}
	case *expr.Mul:
		for _, f := range v.Factors() {
			if err := collectTerms(f, varName, out); err != nil {
				return err
			}
		}
	case *expr.Pow:
		if expr.Contains(v.Exp(), varName) {
			return fault.Unsupportedf("power with variable exponent %s", v)
		}
		if n, ok := v.Exp().(*expr.Num); !ok || !n.IsInt() {
			if expr.Contains(v.Base(), varName) {
				return fault.Unsupportedf("algebraic power %s", v)
			}
		}
		return collectTerms(v.Base(), varName, out)
	case *expr.Func:
		if !expr.Contains(v.Arg(), varName) {
			return fault.Unsupportedf("transcendental constant %s", v)
		}
		var kind Kind
		switch v.Name() {
		case "log":
			kind = KindLog
		case "exp":
			kind = KindExp
		case "tan":
			kind = KindTan
		default:
			return fault.Unsupportedf("function %s not admitted in a tower", v.Name())
		}
		// Inner terms first so arguments refer backwards only.
		if err := collectTerms(v.Arg(), varName, out); err != nil {
			return err
		}
		arg := v.Arg().Simplify()
		for _, t := range *out {
			if t.Kind == kind && t.Arg.Equal(arg) {
				return nil
			}
		}
		*out = append(*out, Term{Kind: kind, Arg: arg})
	case *expr.Integral:
		return fault.Unsupportedf("nested unevaluated integral")
	}
	return nil
}
