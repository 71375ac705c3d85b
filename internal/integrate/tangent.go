package integrate

import (
	"risch/internal/algebra"
	"risch/internal/fault"
	"risch/internal/tower"
)

// tangent integrates at a tangent generator t = tan(u), with the
// special polynomial S = 1 + t^2 dividing D(S). Powers of S in the
// denominator reduce through the exact derivatives
//
//	D(c/S^j)   = D(c)/S^j - 2j c u' t/S^j
//	D(c t/S^j) = D(c) t/S^j + 2j c u'/S^j + (1-2j) c u'/S^{j-1}
//	D(c log S) = 2 c u' t              for constant c
//
// and the S-free part follows the usual Hermite plus Rothstein-Trager
// path.
func (it *Integrator) tangent(f *algebra.Elem, l int, gen *tower.Generator) (Answer, error) {
	v := l - 1
	w := it.tw.DerivElem(gen.ArgEl)
	quot, num, den := ratParts(f, l)
	ans := emptyAnswer()
	spec := algebra.NewPolyC(v, algebra.QInt(1), algebra.QInt(0), algebra.QInt(1))

	// Extract the S^k factor of the denominator.
	k := 0
	d1 := den
	for {
		q, r := d1.DivMod(spec)
		if !r.IsZero() {
			break
		}
		d1 = q
		k++
	}

	poly := quot
	if k > 0 {
		sk := spec.Pow(k)
		over, rest := num, algebra.NewPoly(v)
		if d1.Deg() > 0 {
			g, s, tq := algebra.ExtGCD(sk, d1)
			if g.Deg() != 0 {
				return Answer{}, fault.Algorithmf("special polynomial shares a factor with the denominator")
			}
			over = num.Mul(tq).Mod(sk)
			rest = num.Mul(s).Mod(d1)
		}
		extra, err := it.tanSpecial(over, spec, k, v, w, &ans)
		if err != nil {
			return Answer{}, err
		}
		poly = poly.Add(extra)
		if err := it.tanProper(rest, d1, spec, v, &poly, &ans); err != nil {
			return Answer{}, err
		}
	} else if err := it.tanProper(num, d1, spec, v, &poly, &ans); err != nil {
		return Answer{}, err
	}

	if err := it.tanPoly(poly, spec, v, w, &ans); err != nil {
		return Answer{}, err
	}
	return ans, nil
}

// tanSpecial integrates over/S^k and returns a leftover polynomial to
// fold into the polynomial part. The numerator splits into S-adic
// digits e0 + e1 t, one per power of S; killing the t part of a digit
// costs one D(c)/S^j correction to its constant part, and killing the
// constant part carries (2j-1) c u' down to the next lower power.
func (it *Integrator) tanSpecial(over, spec *algebra.Poly, k, v int, w *algebra.Elem, ans *Answer) (*algebra.Poly, error) {
	digits := make([]*algebra.Poly, k+1)
	rem := over
	for j := k; j >= 1; j-- {
		rem, digits[j] = rem.DivMod(spec)
	}
	out := rem
	specEl := spec.Elem()

	for j := k; j >= 2; j-- {
		d := digits[j]
		if d.IsZero() {
			continue
		}
		e0, e1 := d.Coeff(0), d.Coeff(1)
		sj := specEl.PowInt(j)
		twoJ := algebra.QInt(int64(2 * j))
		if !e1.IsZero() {
			c := e1.Div(w.ScaleC(twoJ)).Neg()
			ans.Part = ans.Part.Add(c.Div(sj))
			e0 = e0.Sub(it.tw.DerivElem(c))
		}
		if e0.IsZero() {
			continue
		}
		ca := e0.Div(w.ScaleC(twoJ))
		if _, ok := ca.ConstVal(); !ok {
			ans.Resid = ans.Resid.Add(e0.Div(sj))
			continue
		}
		ans.Part = ans.Part.Add(algebra.Gen(v).Mul(ca).Div(sj))
		carry := ca.Mul(w).ScaleC(algebra.QInt(int64(2*j - 1)))
		digits[j-1] = digits[j-1].Add(algebra.NewPoly(v, carry))
	}

	d := digits[1]
	if d.IsZero() {
		return out, nil
	}
	e0, e1 := d.Coeff(0), d.Coeff(1)
	two := algebra.QInt(2)
	if !e1.IsZero() {
		c := e1.Div(w.ScaleC(two)).Neg()
		ans.Part = ans.Part.Add(c.Div(specEl))
		// D(c/S) contributes D(c)/S beyond the wanted e1 t/S.
		e0 = e0.Sub(it.tw.DerivElem(c))
	}
	if e0.IsZero() {
		return out, nil
	}
	ka := e0.Div(w.ScaleC(two))
	if _, ok := ka.ConstVal(); !ok {
		ans.Resid = ans.Resid.Add(e0.Div(specEl))
		return out, nil
	}
	ans.Part = ans.Part.Add(algebra.Gen(v).Div(specEl).Mul(ka))
	// D(ka t/S) = e0/S - e0/2, so e0/2 remains for the caller's
	// polynomial pass.
	rem1, ok := e0.ScaleC(algebra.QFrac(1, 2)).AsPoly(v)
	if !ok {
		return nil, fault.Algorithmf("tangent remainder left the polynomial ring")
	}
	return out.Add(rem1), nil
}

// tanProper handles the S-free proper fraction via Hermite reduction
// and the logarithmic part; the defect of the log terms at a tangent
// generator is a polynomial of low degree and joins the polynomial
// part.
func (it *Integrator) tanProper(num, den, spec *algebra.Poly, v int, poly **algebra.Poly, ans *Answer) error {
	if num.IsZero() || den.Deg() == 0 {
		return nil
	}
	dm, lc := den.Monic()
	part, n2, d2, resid := it.hermite(num.Scale(lc.Inv()), dm)
	ans.Part = ans.Part.Add(part)
	ans.Resid = ans.Resid.Add(resid)
	if n2.IsZero() {
		return nil
	}
	logs, defect, err := it.logTerms(n2, d2)
	if err != nil {
		return err
	}
	ans.Logs = append(ans.Logs, logs...)
	if defect.IsZero() {
		return nil
	}
	if dp, ok := defect.Neg().AsPoly(v); ok {
		*poly = (*poly).Add(dp)
		return nil
	}
	ans.Resid = ans.Resid.Add(defect.Neg())
	return nil
}

// tanPoly integrates a polynomial in t: degrees two and up reduce via
// b t^{n-1}, the linear coefficient yields log(1+t^2), and the
// constant term recurses below.
func (it *Integrator) tanPoly(p, spec *algebra.Poly, v int, w *algebra.Elem, ans *Answer) error {
	rem := p
	for rem.Deg() >= 2 {
		n := rem.Deg()
		b := rem.LC().Div(w.ScaleC(algebra.QInt(int64(n - 1))))
		mono := monomial(v, b, n-1)
		ans.Part = ans.Part.Add(mono.Elem())
		rem = rem.Sub(it.tw.DerivPoly(mono))
		if rem.Deg() >= n {
			return fault.Algorithmf("no degree drop at a tangent generator")
		}
	}
	if rem.Deg() == 1 {
		a := rem.Coeff(1)
		kb := a.Div(w.ScaleC(algebra.QInt(2)))
		if kc, ok := kb.ConstVal(); ok {
			ans.Logs = append(ans.Logs, LogTerm{Coeff: kc, Arg: spec})
		} else {
			ans.Resid = ans.Resid.Add(monomial(v, a, 1).Elem())
		}
		rem = algebra.NewPoly(v, rem.Coeff(0))
	}
	if !rem.IsZero() {
		low, err := it.level(rem.Coeff(0))
		if err != nil {
			return err
		}
		*ans = ans.merge(low)
	}
	return nil
}
