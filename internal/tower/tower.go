package tower

import (
	"risch/expr"
	"risch/internal/algebra"
	"risch/internal/fault"
)

// Generator is one monomial extension of the tower.
type Generator struct {
	Height int
	Kind   Kind
	// Arg is the symbolic argument of the generator; x itself for the
	// identity generator.
	Arg expr.Expr
	// ArgEl is Arg lowered into the field below this generator. Nil
	// for the identity generator.
	ArgEl *algebra.Elem
	// DGen is the derivative of the generator as a tower element.
	DGen *algebra.Elem
}

// Tower is a differential field tower over Q (or a quadratic
// extension of Q) with x as its base generator.
type Tower struct {
	Variable  string
	Gens      []*Generator
	Algebraic bool
}

// Build assembles a tower from classified terms. The first term must
// be the identity; each later term's argument may only involve
// earlier generators.
func Build(terms []Term, varName string, algebraic bool) (*Tower, error) {
	fault.AssertTower(len(terms) > 0 && terms[0].Kind == KindIdentity,
		"tower must start with the identity generator")
	tw := &Tower{Variable: varName, Algebraic: algebraic}
	tw.Gens = append(tw.Gens, &Generator{
		Height: 0,
		Kind:   KindIdentity,
		Arg:    expr.S(varName),
		DGen:   algebra.One(),
	})
	for _, term := range terms[1:] {
		if term.Kind == KindIdentity {
			continue
		}
		if tw.find(term.Kind, term.Arg) >= 0 {
			continue
		}
		argEl, err := tw.ToElem(term.Arg)
		if err != nil {
			return nil, err
		}
		h := len(tw.Gens)
		w := tw.DerivElem(argEl)
		t := algebra.Gen(h)
		var dgen *algebra.Elem
		switch term.Kind {
		case KindLog:
			if argEl.IsZero() {
				return nil, fault.Unsupportedf("logarithm of zero")
			}
			dgen = w.Div(argEl)
		case KindExp:
			dgen = w.Mul(t)
		case KindTan:
			dgen = w.Mul(algebra.One().Add(t.Mul(t)))
		default:
			return nil, fault.Unsupportedf("%s generator not admitted", term.Kind)
		}
		fault.AssertTower(dgen.Level() <= h+1, "generator derivative escapes level %d", h+1)
		tw.Gens = append(tw.Gens, &Generator{
			Height: h,
			Kind:   term.Kind,
			Arg:    term.Arg,
			ArgEl:  argEl,
			DGen:   dgen,
		})
	}
	return tw, nil
}

// Height returns the number of generators including the identity.
func (tw *Tower) Height() int { return len(tw.Gens) }

// Gen returns generator k.
func (tw *Tower) Gen(k int) *Generator {
	fault.AssertTower(k >= 0 && k < len(tw.Gens), "generator %d out of range", k)
	return tw.Gens[k]
}

func (tw *Tower) find(kind Kind, arg expr.Expr) int {
	for i, g := range tw.Gens {
		if g.Kind == kind && g.Arg.Equal(arg) {
			return i
		}
	}
	return -1
}

// GenDef returns the symbolic definition of generator k.
func (tw *Tower) GenDef(k int) expr.Expr {
	g := tw.Gen(k)
	switch g.Kind {
	case KindIdentity:
		return expr.S(tw.Variable)
	case KindLog:
		return expr.LogOf(g.Arg)
	case KindExp:
		return expr.ExpOf(g.Arg)
	case KindTan:
		return expr.TanOf(g.Arg)
	}
	panic(fault.TowerAssert{Msg: "generator without a definition"})
}

// DerivElem applies the tower derivation to an element.
func (tw *Tower) DerivElem(e *algebra.Elem) *algebra.Elem {
	if e.Level() == 0 {
		return algebra.Zero()
	}
	num, den := e.NumDen(e.Level())
	dn := tw.derivPolyElem(num)
	if den.Deg() == 0 {
		return dn
	}
	dd := tw.derivPolyElem(den)
	nEl, dEl := num.Elem(), den.Elem()
	return dn.Mul(dEl).Sub(nEl.Mul(dd)).Div(dEl.Mul(dEl))
}

func (tw *Tower) derivPolyElem(p *algebra.Poly) *algebra.Elem {
	k := p.Vari()
	fault.AssertTower(k < len(tw.Gens), "generator %d beyond tower height", k)
	dg := tw.Gens[k].DGen
	t := algebra.Gen(k)
	res := algebra.Zero()
	for i := 0; i <= p.Deg(); i++ {
		c := p.Coeff(i)
		if dc := tw.DerivElem(c); !dc.IsZero() {
			res = res.Add(dc.Mul(t.PowInt(i)))
		}
		if i > 0 {
			res = res.Add(c.ScaleC(algebra.QInt(int64(i))).Mul(t.PowInt(i - 1)).Mul(dg))
		}
	}
	return res
}

// DerivPoly applies the derivation to a polynomial in its top
// generator. The result is again a polynomial in that generator.
func (tw *Tower) DerivPoly(p *algebra.Poly) *algebra.Poly {
	el := tw.derivPolyElem(p)
	out, ok := el.AsPoly(p.Vari())
	fault.AssertTower(ok, "derivative of a polynomial left the polynomial ring")
	return out
}
