package risch

import (
	"math/big"

	"risch/expr"
	"risch/internal/algebra"
	"risch/internal/integrate"
	"risch/internal/tower"
)

// reconstruct lifts an integration answer back into expression form.
// The residual is returned separately; nil means the answer is closed.
func reconstruct(tw *tower.Tower, ans integrate.Answer) (value, residual expr.Expr) {
	parts := []expr.Expr{}
	if !ans.Part.IsZero() {
		parts = append(parts, elemToExpr(tw, ans.Part))
	}
	parts = append(parts, logsToExpr(tw, ans.Logs)...)
	if len(parts) == 0 {
		parts = append(parts, expr.N(0))
	}
	value = expr.AddOf(parts...)
	if !ans.Resid.IsZero() {
		residual = elemToExpr(tw, ans.Resid).Simplify()
	}
	return value, residual
}

func elemToExpr(tw *tower.Tower, e *algebra.Elem) expr.Expr {
	if c, ok := e.ConstVal(); ok {
		return constToExpr(c)
	}
	num, den := e.NumDen(e.Level())
	nE := polyToExpr(tw, num)
	if den.Deg() == 0 {
		return nE
	}
	return expr.MulOf(nE, expr.PowOf(polyToExpr(tw, den), expr.N(-1)))
}

func polyToExpr(tw *tower.Tower, p *algebra.Poly) expr.Expr {
	if p.IsZero() {
		return expr.N(0)
	}
	gen := tw.GenDef(p.Vari())
	terms := []expr.Expr{}
	for i := 0; i <= p.Deg(); i++ {
		c := p.Coeff(i)
		if c.IsZero() {
			continue
		}
		cE := elemToExpr(tw, c)
		switch i {
		case 0:
			terms = append(terms, cE)
		case 1:
			terms = append(terms, expr.MulOf(cE, gen))
		default:
			terms = append(terms, expr.MulOf(cE, expr.PowOf(gen, expr.N(int64(i)))))
		}
	}
	return expr.AddOf(terms...)
}

// constToExpr renders a constant, expanding quadratic algebraic
// numbers into radicals (with the imaginary unit for negative
// discriminants) and falling back to a RootOf marker otherwise.
func constToExpr(c algebra.Const) expr.Expr {
	if r, ok := c.Rat(); ok {
		return expr.R(r)
	}
	root := c.Root()
	coords := c.Coords()
	if root.Deg() == 2 {
		// alpha = (-p + sqrt(disc))/2
		alpha := expr.MulOf(expr.F(1, 2), expr.AddOf(
			expr.R(new(big.Rat).Neg(root.Min[1])),
			sqrtExpr(root.Disc()),
		))
		return expr.AddOf(expr.R(coords[0]), expr.MulOf(expr.R(coords[1]), alpha))
	}
	marker := expr.RootOf(minPolyExpr(root))
	terms := []expr.Expr{expr.R(coords[0])}
	for i := 1; i < len(coords); i++ {
		terms = append(terms, expr.MulOf(expr.R(coords[i]), expr.PowOf(marker, expr.N(int64(i)))))
	}
	return expr.AddOf(terms...)
}

func minPolyExpr(root *algebra.Root) expr.Expr {
	z := expr.S("_z")
	terms := []expr.Expr{}
	for i, co := range root.Min {
		if co.Sign() == 0 {
			continue
		}
		terms = append(terms, expr.MulOf(expr.R(co), expr.PowOf(z, expr.N(int64(i)))))
	}
	return expr.AddOf(terms...)
}

func sqrtExpr(r *big.Rat) expr.Expr {
	if r.Sign() >= 0 {
		return expr.SqrtOf(expr.R(r))
	}
	return expr.MulOf(expr.I(), expr.SqrtOf(expr.R(new(big.Rat).Neg(r))))
}

// logsToExpr renders the logarithmic terms. Conjugate pairs over a
// quadratic extension with negative discriminant combine into a real
// log plus arctangent; everything else renders directly.
func logsToExpr(tw *tower.Tower, logs []integrate.LogTerm) []expr.Expr {
	used := make([]bool, len(logs))
	out := []expr.Expr{}
	for i, lt := range logs {
		if used[i] {
			continue
		}
		used[i] = true
		root := lt.Coeff.Root()
		if root != nil && root.Deg() == 2 && root.Disc().Sign() < 0 {
			partner := -1
			conjC := lt.Coeff.Conj()
			conjArg := lt.Arg.Conj()
			for j := i + 1; j < len(logs); j++ {
				if used[j] || logs[j].Coeff.Root() == nil {
					continue
				}
				if logs[j].Coeff.Root().SamePoly(root) &&
					logs[j].Coeff.Equal(conjC) && logs[j].Arg.Equal(conjArg) {
					partner = j
					break
				}
			}
			if partner >= 0 {
				used[partner] = true
				out = append(out, atanPair(tw, lt)...)
				continue
			}
		}
		out = append(out, expr.MulOf(
			constToExpr(lt.Coeff),
			expr.LogOf(polyToExpr(tw, lt.Arg)),
		))
	}
	return out
}

// atanPair renders c*log(V) + conj(c)*log(conj(V)) as
//
//	Re(c) * log(Vre^2 + Vim^2) + 2 Im(c) * atan(Vre/Vim)
//
// using the embedding alpha = (-p + i*rho)/2 with rho^2 = -disc.
func atanPair(tw *tower.Tower, lt integrate.LogTerm) []expr.Expr {
	root := lt.Coeff.Root()
	coords := lt.Coeff.Coords()
	p := root.Min[1]
	rho2 := new(big.Rat).Neg(root.Disc())

	// Re(c) = c0 - c1*p/2, 2*Im(c) = c1*rho.
	aRe := new(big.Rat).Mul(coords[1], p)
	aRe.Mul(aRe, big.NewRat(1, 2))
	aRe.Sub(coords[0], aRe)

	alphaDiff := algebra.Alpha(root).Sub(algebra.Alpha(root).Conj())
	v := lt.Arg
	vConj := v.Conj()
	vRe := v.Add(vConj).ScaleC(algebra.QFrac(1, 2))
	e1 := v.Sub(vConj).Scale(algebra.ConstElem(alphaDiff).Inv())

	vReE := polyToExpr(tw, vRe)
	e1E := polyToExpr(tw, e1)
	rhoE := expr.SqrtOf(expr.R(rho2))
	vImE := expr.MulOf(expr.F(1, 2), rhoE, e1E)

	out := []expr.Expr{}
	if aRe.Sign() != 0 {
		mag := expr.AddOf(
			expr.PowOf(vReE, expr.N(2)),
			expr.MulOf(expr.R(new(big.Rat).Quo(rho2, big.NewRat(4, 1))), expr.PowOf(e1E, expr.N(2))),
		)
		out = append(out, expr.MulOf(expr.R(aRe), expr.LogOf(mag)))
	}
	out = append(out, expr.MulOf(
		expr.R(coords[1]), rhoE,
		expr.AtanOf(expr.MulOf(vReE, expr.PowOf(vImE, expr.N(-1)))),
	))
	return out
}
