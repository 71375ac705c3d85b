package integrate

import (
	"go.uber.org/zap"

	"risch/internal/algebra"
	"risch/internal/fault"
	"risch/internal/tower"
)

// exponential integrates at an exponential generator t = exp(u). The
// integrand splits into a Laurent part in t, whose monomials a*t^n
// solve first-order equations D(y) + n u' y = a, and a proper
// fraction coprime to t handled by Hermite reduction and the
// logarithmic part.
func (it *Integrator) exponential(f *algebra.Elem, l int, gen *tower.Generator) (Answer, error) {
	v := l - 1
	w := it.tw.DerivElem(gen.ArgEl)
	quot, num, den := ratParts(f, l)
	ans := emptyAnswer()

	// t is special here: strip the t^m factor of the denominator.
	m := 0
	for m <= den.Deg() && den.Coeff(m).IsZero() {
		m++
	}
	d1 := algebra.NewPoly(v)
	if m > 0 {
		co := make([]*algebra.Elem, den.Deg()-m+1)
		for i := range co {
			co[i] = den.Coeff(i + m)
		}
		d1 = algebra.NewPoly(v, co...)
	} else {
		d1 = den
	}

	var laurent, proper *algebra.Poly
	switch {
	case m == 0:
		laurent, proper = algebra.NewPoly(v), num
	case d1.Deg() == 0:
		laurent, proper = num, algebra.NewPoly(v)
	default:
		tm := monomial(v, algebra.One(), m)
		g, s, t := algebra.ExtGCD(tm, d1)
		if g.Deg() != 0 {
			return Answer{}, fault.Algorithmf("exponential generator divides its own cofactor")
		}
		// num/(t^m d1) = (num*t mod t^m)/t^m + (num*s + q*d1)/d1
		q, b := num.Mul(t).DivMod(tm)
		laurent = b
		proper = num.Mul(s).Add(q.Mul(d1)).Mod(d1)
	}

	// Laurent monomials: positive powers from the quotient, negative
	// powers over t^m.
	for i := quot.Deg(); i >= 1; i-- {
		it.rde(quot.Coeff(i), i, v, w, &ans)
	}
	if c0 := quot.Coeff(0); !c0.IsZero() {
		low, err := it.level(c0)
		if err != nil {
			return Answer{}, err
		}
		ans = ans.merge(low)
	}
	for j := 0; j <= laurent.Deg(); j++ {
		it.rde(laurent.Coeff(j), j-m, v, w, &ans)
	}

	if !proper.IsZero() && d1.Deg() > 0 {
		d1m, lc := d1.Monic()
		part, n2, d2, resid := it.hermite(proper.Scale(lc.Inv()), d1m)
		ans.Part = ans.Part.Add(part)
		ans.Resid = ans.Resid.Add(resid)
		if !n2.IsZero() {
			logs, defect, err := it.logTerms(n2, d2)
			if err != nil {
				return Answer{}, err
			}
			ans.Logs = append(ans.Logs, logs...)
			if err := it.expDefect(defect, v, &ans); err != nil {
				return Answer{}, err
			}
		}
	}
	return ans, nil
}

// expDefect integrates the correction left by the logarithmic part.
// At an exponential generator the defect of constant-residue logs is
// free of t, so it recurses strictly below the current level.
func (it *Integrator) expDefect(defect *algebra.Elem, v int, ans *Answer) error {
	if defect.IsZero() {
		return nil
	}
	rest := defect.Neg()
	if rest.Level() > v {
		// Unexpected t dependence; keep soundness by residualizing.
		it.lg.Debug("exponential defect depends on the generator", zap.Int("generator", v))
		ans.Resid = ans.Resid.Add(rest)
		return nil
	}
	low, err := it.level(rest)
	if err != nil {
		return err
	}
	*ans = ans.merge(low)
	return nil
}

// rde solves D(y) + n u' y = a by fixed-point refinement
//
//	y <- y + r/(n u'),  r <- -D(r/(n u'))
//
// which terminates for rational inputs unless the equation resonates,
// in which case a*t^n has no elementary integral and is residualized.
func (it *Integrator) rde(a *algebra.Elem, n, v int, w *algebra.Elem, ans *Answer) {
	if a.IsZero() {
		return
	}
	tn := algebra.Gen(v).PowInt(n)
	denom := w.ScaleC(algebra.QInt(int64(n)))
	if denom.IsZero() {
		ans.Resid = ans.Resid.Add(a.Mul(tn))
		return
	}
	limit := 8 + 2*(a.Weight()+w.Weight())
	y := algebra.Zero()
	r := a
	for i := 0; i < limit && !r.IsZero(); i++ {
		cand := r.Div(denom)
		y = y.Add(cand)
		r = it.tw.DerivElem(cand).Neg()
	}
	if r.IsZero() {
		ans.Part = ans.Part.Add(y.Mul(tn))
		return
	}
	it.lg.Debug("rde resonance", zap.Int("power", n))
	ans.Resid = ans.Resid.Add(a.Mul(tn))
}
