package tower

import (
	"risch/expr"
	"risch/internal/algebra"
	"risch/internal/fault"
)

// ToElem lowers an expression into the tower's field. Every function
// occurrence must correspond to a generator; the classifier guarantees
// this for expressions its Terms call accepted.
func (tw *Tower) ToElem(e expr.Expr) (*algebra.Elem, error) {
	switch v := e.(type) {
	case *expr.Num:
		return algebra.ConstElem(algebra.FromRat(v.Rat())), nil
	case *expr.Sym:
		if v.Name() == tw.Variable {
			return algebra.Gen(0), nil
		}
		return nil, fault.Unsupportedf("free parameter %s", v.Name())
	case *expr.Imag:
		if !tw.Algebraic {
			return nil, fault.ErrNeedAlgebraic
		}
		return algebra.ConstElem(algebra.Alpha(algebra.ImagRoot())), nil
	case *expr.Add:
		sum := algebra.Zero()
		for _, t := range v.Terms() {
			el, err := tw.ToElem(t)
			if err != nil {
				return nil, err
			}
			sum = sum.Add(el)
		}
		return sum, nil
	case *expr.Mul:
		prod := algebra.One()
		for _, f := range v.Factors() {
			el, err := tw.ToElem(f)
			if err != nil {
				return nil, err
			}
			prod = prod.Mul(el)
		}
		return prod, nil
	case *expr.Pow:
		n, ok := v.Exp().(*expr.Num)
		if !ok || !n.IsInt() {
			return nil, fault.Unsupportedf("non-integer power %s", v)
		}
		base, err := tw.ToElem(v.Base())
		if err != nil {
			return nil, err
		}
		k := n.Int64()
		if k < 0 && base.IsZero() {
			return nil, fault.Unsupportedf("negative power of zero")
		}
		return base.PowInt(int(k)), nil
	case *expr.Func:
		var kind Kind
		switch v.Name() {
		case "log":
			kind = KindLog
		case "exp":
			kind = KindExp
		case "tan":
			kind = KindTan
		default:
			return nil, fault.Unsupportedf("function %s has no generator", v.Name())
		}
		idx := tw.find(kind, v.Arg().Simplify())
		if idx < 0 {
			return nil, fault.Unsupportedf("no generator for %s", v)
		}
		return algebra.Gen(idx), nil
	case *expr.Integral:
		return nil, fault.Unsupportedf("nested unevaluated integral")
	}
	return nil, fault.Unsupportedf("unrecognized expression node")
}
