package integrate

import (
	"go.uber.org/zap"

	"risch/internal/algebra"
	"risch/internal/fault"
)

// logTerms computes the logarithmic part of the proper fraction
// num/den with den monic and squarefree, by the Rothstein-Trager
// resultant. It returns the log terms together with the defect
//
//	defect = sum c_i * D(V_i)/V_i - num/den
//
// which is zero exactly when the log terms account for the whole
// fraction. Callers integrate or residualize a nonzero defect
// according to their generator kind.
//
// When the residues are not all constant the fraction has no
// elementary integral over the tower; the terms are empty and the
// whole fraction is the (negated) defect.
func (it *Integrator) logTerms(num, den *algebra.Poly) ([]LogTerm, *algebra.Elem, error) {
	frac := num.Elem().Div(den.Elem())
	if num.IsZero() {
		return nil, algebra.Zero(), nil
	}
	v := den.Vari()
	dq := it.tw.DerivPoly(den)

	// Rename the generator to a fresh index so that index v becomes
	// the formal residue indeterminate c.
	cvar := algebra.Gen(v)
	denS := den.ShiftVar(v + 1)
	aS := num.ShiftVar(v + 1).Sub(dq.ShiftVar(v + 1).Scale(cvar))
	res := algebra.Resultant(denS, aS)
	if res.IsZero() {
		return nil, nil, fault.Algorithmf("vanishing resultant for a reduced fraction")
	}
	rp, ok := res.AsPoly(v)
	if !ok {
		return nil, nil, fault.Algorithmf("resultant is not polynomial in the residue variable")
	}
	rp, _ = rp.Monic()
	coeffs, constOK := rp.ConstCoeffs()
	if !constOK {
		// Non-constant residues: no elementary logarithmic part.
		it.lg.Debug("non-constant residues", zap.Int("generator", v))
		return nil, frac.Neg(), nil
	}

	roots, err := algebra.FindRoots(coeffs, it.tw.Algebraic)
	if err != nil {
		return nil, nil, err
	}

	var logs []LogTerm
	for _, c := range roots {
		if c.IsZero() {
			continue
		}
		m := num.Sub(dq.ScaleC(c))
		vi := algebra.GCD(den, m)
		if vi.Deg() < 1 {
			continue
		}
		logs = append(logs, LogTerm{Coeff: c, Arg: vi})
	}
	defect := it.logDeriv(logs).Sub(frac)
	return logs, defect, nil
}
