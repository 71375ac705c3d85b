// Package tower builds differential field towers over Q(x): it
// rewrites integrands into the exp/log/tan class, classifies the
// transcendental terms, orders them into a tower of monomial
// extensions, and provides the derivation and the lowering of
// expressions into tower elements.
package tower

import "risch/expr"

// Kind classifies a tower generator.
type Kind int

const (
	// KindIdentity is the base generator x with derivative 1.
	KindIdentity Kind = iota
	// KindLog is a logarithmic generator t = log(u), t' = u'/u.
	KindLog
	// KindExp is an exponential generator t = exp(u), t' = u' t.
	KindExp
	// KindTan is a tangent generator t = tan(u), t' = u' (1 + t^2).
	KindTan
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindLog:
		return "log"
	case KindExp:
		return "exp"
	case KindTan:
		return "tan"
	}
	return "unknown"
}

// Term is one transcendental term of an integrand: a generator kind
// together with its argument expression.
type Term struct {
	Kind Kind
	Arg  expr.Expr
}
