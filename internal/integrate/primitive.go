package integrate

import (
	"risch/internal/algebra"
	"risch/internal/fault"
	"risch/internal/tower"
)

// primitive integrates at an identity or logarithmic generator, where
// the derivative of the generator is free of the generator itself.
func (it *Integrator) primitive(f *algebra.Elem, l int, gen *tower.Generator) (Answer, error) {
	quot, num, den := ratParts(f, l)
	ans := emptyAnswer()
	if !num.IsZero() {
		part, n2, d2, resid := it.hermite(num, den)
		ans.Part = ans.Part.Add(part)
		ans.Resid = ans.Resid.Add(resid)
		if !n2.IsZero() {
			logs, defect, err := it.logTerms(n2, d2)
			if err != nil {
				return Answer{}, err
			}
			ans.Logs = append(ans.Logs, logs...)
			if !defect.IsZero() {
				// The fraction is not fully covered by constant-residue
				// logs; the uncovered piece stays unintegrated.
				ans.Resid = ans.Resid.Add(defect.Neg())
			}
		}
	}
	pans, err := it.primPoly(quot, l, gen)
	if err != nil {
		return Answer{}, err
	}
	return ans.merge(pans), nil
}

// primPoly integrates a polynomial in a primitive generator t by
// descending degree: the integral of p_n t^n needs an antiderivative
// of p_n of the shape s + k*t with constant k, contributing
// (k/(n+1)) t^{n+1} + s t^n.
func (it *Integrator) primPoly(p *algebra.Poly, l int, gen *tower.Generator) (Answer, error) {
	v := l - 1
	ans := emptyAnswer()
	rem := p
	for rem.Deg() >= 1 {
		n := rem.Deg()
		pn := rem.LC()
		low, err := it.level(pn)
		if err != nil {
			return Answer{}, err
		}
		s, k, ok := it.primCoeff(low, gen, v)
		if !ok {
			mono := monomial(v, pn, n)
			ans.Resid = ans.Resid.Add(mono.Elem())
			rem = rem.Sub(mono)
			continue
		}
		co := make([]*algebra.Elem, n+2)
		for i := range co {
			co[i] = algebra.Zero()
		}
		co[n+1] = algebra.ConstElem(k.Div(algebra.QInt(int64(n + 1))))
		co[n] = s
		q := algebra.NewPoly(v, co...)
		ans.Part = ans.Part.Add(q.Elem())
		rem = rem.Sub(it.tw.DerivPoly(q))
		if rem.Deg() >= n {
			return Answer{}, fault.Algorithmf("no degree drop at a primitive generator")
		}
	}
	if !rem.IsZero() {
		low, err := it.level(rem.Coeff(0))
		if err != nil {
			return Answer{}, err
		}
		ans = ans.merge(low)
	}
	return ans, nil
}

// primCoeff decides whether a lower-level answer has the shape
// s + k*t + (matching log terms) with constant k, where t is the
// current generator. Matching log terms are logs of the monic part of
// the generator argument; they fold into k.
func (it *Integrator) primCoeff(low Answer, gen *tower.Generator, v int) (*algebra.Elem, algebra.Const, bool) {
	if !low.Resid.IsZero() {
		return nil, algebra.Const{}, false
	}
	pp, isPoly := low.Part.AsPoly(v)
	if !isPoly || pp.Deg() > 1 {
		return nil, algebra.Const{}, false
	}
	s := pp.Coeff(0)
	k, isConst := pp.Coeff(1).ConstVal()
	if !isConst {
		return nil, algebra.Const{}, false
	}

	var uMonic *algebra.Poly
	if gen.Kind == tower.KindLog {
		lu := gen.ArgEl.Level()
		if lu > 0 {
			up, ok := gen.ArgEl.AsPoly(lu - 1)
			if ok {
				monic, lc := up.Monic()
				if _, lcConst := lc.ConstVal(); lcConst {
					uMonic = monic
				}
			}
		}
	}
	for _, lt := range low.Logs {
		if uMonic != nil && lt.Arg.Vari() == uMonic.Vari() && lt.Arg.Equal(uMonic) {
			k = k.Add(lt.Coeff)
			continue
		}
		// A log term outside the field below t cannot be absorbed.
		return nil, algebra.Const{}, false
	}
	return s, k, true
}

func monomial(v int, c *algebra.Elem, n int) *algebra.Poly {
	co := make([]*algebra.Elem, n+1)
	for i := range co {
		co[i] = algebra.Zero()
	}
	co[n] = c
	return algebra.NewPoly(v, co...)
}
