// Package expr implements the symbolic expression kernel used on both
// sides of the integrator: parsed input expressions are lowered into
// the algebraic engine, and results are rebuilt as expressions again.
//
// Every constructor simplifies on the way in, so expressions stay in a
// lightly normalized form: numeric subterms are folded exactly over
// big.Rat, like terms are collected, and trivial identities are
// applied.
package expr

import (
	"fmt"
	"math/big"
	"sort"
)

// Expr is a symbolic expression. All implementations are immutable;
// every operation returns a new expression.
type Expr interface {
	// Simplify returns a lightly normalized form of the expression.
	Simplify() Expr
	// String renders the expression in infix notation.
	String() string
	// LaTeX renders the expression as LaTeX source.
	LaTeX() string
	// Sub substitutes value for every free occurrence of the variable.
	Sub(varName string, value Expr) Expr
	// Diff differentiates with respect to the named variable.
	Diff(varName string) Expr
	// Eval attempts an exact numeric evaluation. The second return is
	// false when the expression is not a closed numeric value.
	Eval() (float64, bool)
	// Equal reports structural equality after simplification.
	Equal(other Expr) bool

	kind() string
	toJSON() map[string]any
}

// ============================================================
// Num: exact rational constant
// ============================================================

// Num is an exact rational number backed by big.Rat.
type Num struct {
	val *big.Rat
}

// N builds an integer constant.
func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F builds the fraction p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("expr: zero denominator")
	}
	return &Num{val: big.NewRat(p, q)}
}

// R builds a constant from a big.Rat, copying the value.
func R(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

// Rat returns a copy of the underlying rational value.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

// IsInt reports whether the value is an integer.
func (n *Num) IsInt() bool { return n.val.IsInt() }

// Int64 returns the value as int64. Only valid when IsInt holds.
func (n *Num) Int64() int64 { return n.val.Num().Int64() }

func (n *Num) Simplify() Expr { return n }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.String()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return fmt.Sprintf("\\frac{%s}{%s}", n.val.Num().String(), n.val.Denom().String())
}

func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }

func (n *Num) Eval() (float64, bool) {
	f, _ := n.val.Float64()
	return f, true
}

func (n *Num) Equal(other Expr) bool {
	o, ok := other.Simplify().(*Num)
	return ok && n.val.Cmp(o.val) == 0
}

func (n *Num) isZero() bool { return n.val.Sign() == 0 }
func (n *Num) isOne() bool  { return n.val.Cmp(ratOne) == 0 }

func (n *Num) kind() string { return "num" }

func (n *Num) toJSON() map[string]any {
	return map[string]any{"type": "num", "value": n.val.RatString()}
}

var ratOne = big.NewRat(1, 1)

// ============================================================
// Sym: free variable
// ============================================================

// Sym is a free variable.
type Sym struct {
	name string
}

// S builds a variable with the given name.
func S(name string) *Sym { return &Sym{name: name} }

// Name returns the variable name.
func (s *Sym) Name() string { return s.name }

func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }

func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

func (s *Sym) Eval() (float64, bool) { return 0, false }

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.Simplify().(*Sym)
	return ok && s.name == o.name
}

func (s *Sym) kind() string { return "sym" }

func (s *Sym) toJSON() map[string]any {
	return map[string]any{"type": "sym", "name": s.name}
}

// ============================================================
// Imag: the imaginary unit
// ============================================================

// Imag is the imaginary unit. It behaves as a constant under
// differentiation and substitution and has no numeric evaluation.
type Imag struct{}

// I returns the imaginary unit.
func I() *Imag { return &Imag{} }

func (i *Imag) Simplify() Expr         { return i }
func (i *Imag) String() string         { return "i" }
func (i *Imag) LaTeX() string          { return "i" }
func (i *Imag) Sub(string, Expr) Expr  { return i }
func (i *Imag) Diff(string) Expr       { return N(0) }
func (i *Imag) Eval() (float64, bool)  { return 0, false }
func (i *Imag) Equal(other Expr) bool  { _, ok := other.Simplify().(*Imag); return ok }
func (i *Imag) kind() string           { return "imag" }
func (i *Imag) toJSON() map[string]any { return map[string]any{"type": "imag"} }

// ============================================================
// Integral: unevaluated integral
// ============================================================

// Integral is an unevaluated integral with respect to one variable.
// The integrator emits it for pieces it proves it cannot close, and
// the coordinator emits it when degrading a failure.
type Integral struct {
	integrand Expr
	varName   string
}

// IntegralOf builds an unevaluated integral of f with respect to varName.
func IntegralOf(f Expr, varName string) *Integral {
	return &Integral{integrand: f.Simplify(), varName: varName}
}

// Integrand returns the integrand.
func (in *Integral) Integrand() Expr { return in.integrand }

// Var returns the integration variable name.
func (in *Integral) Var() string { return in.varName }

func (in *Integral) Simplify() Expr {
	return &Integral{integrand: in.integrand.Simplify(), varName: in.varName}
}

func (in *Integral) String() string {
	return fmt.Sprintf("Integral(%s, %s)", in.integrand.String(), in.varName)
}

func (in *Integral) LaTeX() string {
	return fmt.Sprintf("\\int %s \\, d%s", in.integrand.LaTeX(), in.varName)
}

func (in *Integral) Sub(varName string, value Expr) Expr {
	if varName == in.varName {
		return in
	}
	return &Integral{integrand: in.integrand.Sub(varName, value), varName: in.varName}
}

// Diff inverts the integral when differentiating with respect to the
// integration variable, and differentiates under the integral sign
// otherwise.
func (in *Integral) Diff(varName string) Expr {
	if varName == in.varName {
		return in.integrand
	}
	return IntegralOf(in.integrand.Diff(varName), in.varName)
}

func (in *Integral) Eval() (float64, bool) { return 0, false }

func (in *Integral) Equal(other Expr) bool {
	o, ok := other.Simplify().(*Integral)
	return ok && in.varName == o.varName && in.integrand.Equal(o.integrand)
}

func (in *Integral) kind() string { return "integral" }

func (in *Integral) toJSON() map[string]any {
	return map[string]any{
		"type": "integral",
		"of":   in.integrand.toJSON(),
		"var":  in.varName,
	}
}

// ============================================================
// Shared helpers
// ============================================================

// FreeSymbols returns the sorted names of the free variables of e.
func FreeSymbols(e Expr) []string {
	set := map[string]bool{}
	collectSymbols(e, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectSymbols(e Expr, set map[string]bool) {
	switch v := e.(type) {
	case *Sym:
		set[v.name] = true
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, set)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, set)
		}
	case *Pow:
		collectSymbols(v.base, set)
		collectSymbols(v.exp, set)
	case *Func:
		collectSymbols(v.arg, set)
	case *Integral:
		collectSymbols(v.integrand, set)
	}
}

// Contains reports whether the variable occurs free in e.
func Contains(e Expr, varName string) bool {
	switch v := e.(type) {
	case *Sym:
		return v.name == varName
	case *Add:
		for _, t := range v.terms {
			if Contains(t, varName) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if Contains(f, varName) {
				return true
			}
		}
	case *Pow:
		return Contains(v.base, varName) || Contains(v.exp, varName)
	case *Func:
		return Contains(v.arg, varName)
	case *Integral:
		return Contains(v.integrand, varName)
	}
	return false
}

func parenthesize(e Expr) string {
	switch e.(type) {
	case *Add, *Mul:
		return "(" + e.String() + ")"
	}
	if n, ok := e.(*Num); ok && n.val.Sign() < 0 {
		return "(" + n.String() + ")"
	}
	if n, ok := e.(*Num); ok && !n.val.IsInt() {
		return "(" + n.String() + ")"
	}
	return e.String()
}
