package integrate

import (
	"risch/internal/algebra"
)

// hermite reduces the proper fraction num/den (den monic) to an
// integrated rational part plus a proper fraction n2/d2 with
// squarefree d2. Pieces whose denominator factor divides its own
// derivative cannot be reduced here and land in resid.
func (it *Integrator) hermite(num, den *algebra.Poly) (part *algebra.Elem, n2, d2 *algebra.Poly, resid *algebra.Elem) {
	v := den.Vari()
	part = algebra.Zero()
	resid = algebra.Zero()

	sqf := den.Squarefree()
	if len(sqf) == 1 && sqf[0].Mult == 1 {
		return part, num, sqf[0].P, resid
	}

	pieces := algebra.PartialFractions(num, sqf)
	simple := algebra.Zero()
	for idx, f := range sqf {
		a := pieces[idx]
		if a.IsZero() {
			continue
		}
		vp := f.P
		dv := it.tw.DerivPoly(vp)
		reduced := true
		for k := f.Mult; k >= 2; k-- {
			inv, err := algebra.ModInverse(dv, vp)
			if err != nil {
				resid = resid.Add(a.Elem().Div(vp.Pow(k).Elem()))
				reduced = false
				break
			}
			b := a.Mul(inv).Mod(vp).ScaleC(algebra.QFrac(-1, int64(k-1)))
			part = part.Add(b.Elem().Div(vp.Pow(k - 1).Elem()))
			a = a.Add(b.Mul(dv).ScaleC(algebra.QInt(int64(k - 1)))).
				ExactDiv(vp).
				Sub(it.tw.DerivPoly(b))
		}
		if reduced && !a.IsZero() {
			simple = simple.Add(a.Elem().Div(vp.Elem()))
		}
	}

	if simple.IsZero() {
		return part, algebra.NewPoly(v), algebra.NewPolyC(v, algebra.QInt(1)), resid
	}
	n2, d2 = simple.NumDen(v + 1)
	return part, n2, d2, resid
}
