// Package integrate implements the transcendental Risch algorithm
// over a differential tower: Hermite reduction, the Rothstein-Trager
// logarithmic part, and the polynomial-part procedures for primitive,
// exponential and tangent generators.
//
// Results are triples (Part, Logs, Resid) satisfying exactly
//
//	f = D(Part) + sum c_i * D(V_i)/V_i + Resid
//
// where Resid collects pieces proven or assumed non-elementary. Run
// verifies the identity before returning.
package integrate

import (
	"go.uber.org/zap"

	"risch/internal/algebra"
	"risch/internal/fault"
	"risch/internal/tower"
)

// LogTerm is one logarithmic summand c * log(Arg) with monic Arg.
type LogTerm struct {
	Coeff algebra.Const
	Arg   *algebra.Poly
}

// Answer is the outcome of integrating a tower element.
type Answer struct {
	// Part is the rational part of the antiderivative.
	Part *algebra.Elem
	// Logs are the logarithmic summands.
	Logs []LogTerm
	// Resid is the unintegrated remainder of the integrand. A zero
	// Resid means the integral is elementary and closed.
	Resid *algebra.Elem
}

func emptyAnswer() Answer {
	return Answer{Part: algebra.Zero(), Resid: algebra.Zero()}
}

func (a Answer) merge(b Answer) Answer {
	logs := make([]LogTerm, 0, len(a.Logs)+len(b.Logs))
	logs = append(logs, a.Logs...)
	logs = append(logs, b.Logs...)
	return Answer{
		Part:  a.Part.Add(b.Part),
		Logs:  logs,
		Resid: a.Resid.Add(b.Resid),
	}
}

// Integrator runs the algorithm over one tower.
type Integrator struct {
	tw *tower.Tower
	lg *zap.Logger
}

// New builds an integrator. A nil logger disables tracing.
func New(tw *tower.Tower, lg *zap.Logger) *Integrator {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Integrator{tw: tw, lg: lg}
}

// Run integrates f and verifies the result by differentiation.
func (it *Integrator) Run(f *algebra.Elem) (Answer, error) {
	ans, err := it.level(f)
	if err != nil {
		return Answer{}, err
	}
	if !it.check(f, ans) {
		return Answer{}, fault.Algorithmf("derivative of the candidate does not match the integrand")
	}
	return ans, nil
}

// level dispatches on the kind of the top generator of f.
func (it *Integrator) level(f *algebra.Elem) (Answer, error) {
	if f.IsZero() {
		return emptyAnswer(), nil
	}
	l := f.Level()
	if l == 0 {
		// A constant integrates to c*x.
		return Answer{Part: f.Mul(algebra.Gen(0)), Resid: algebra.Zero()}, nil
	}
	gen := it.tw.Gen(l - 1)
	it.lg.Debug("integrate",
		zap.Int("level", l),
		zap.String("kind", gen.Kind.String()))
	switch gen.Kind {
	case tower.KindIdentity, tower.KindLog:
		return it.primitive(f, l, gen)
	case tower.KindExp:
		return it.exponential(f, l, gen)
	case tower.KindTan:
		return it.tangent(f, l, gen)
	}
	return Answer{}, fault.Unsupportedf("no procedure for a %s generator", gen.Kind)
}

// ratParts splits f at level l into a polynomial quotient and a
// proper fraction over a monic denominator.
func ratParts(f *algebra.Elem, l int) (quot, num, den *algebra.Poly) {
	n, d := f.NumDen(l)
	quot, rem := n.DivMod(d)
	return quot, rem, d
}

// check verifies f = D(Part) + D(Logs) + Resid exactly.
func (it *Integrator) check(f *algebra.Elem, ans Answer) bool {
	total := it.tw.DerivElem(ans.Part).Add(ans.Resid).Add(it.logDeriv(ans.Logs))
	return total.Equal(f)
}

// logDeriv sums c * D(V)/V over the log terms, combining terms from
// the same algebraic extension first so conjugate contributions cancel
// back into rationals before groups mix.
func (it *Integrator) logDeriv(logs []LogTerm) *algebra.Elem {
	order := []string{}
	groups := map[string]*algebra.Elem{}
	for _, lt := range logs {
		key := ""
		if r := lt.Coeff.Root(); r != nil {
			key = r.String()
		}
		d := it.tw.DerivPoly(lt.Arg).Elem().Div(lt.Arg.Elem()).ScaleC(lt.Coeff)
		if _, ok := groups[key]; !ok {
			groups[key] = algebra.Zero()
			order = append(order, key)
		}
		groups[key] = groups[key].Add(d)
	}
	total := algebra.Zero()
	for _, k := range order {
		total = total.Add(groups[k])
	}
	return total
}
