package expr

import (
	"fmt"
	"math"
)

// Func is a named elementary function applied to one argument. The
// name set is closed; unknown names panic in funcOf.
type Func struct {
	name string
	arg  Expr
}

var knownFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "log": true,
	"RootOf": true,
}

func funcOf(name string, arg Expr) *Func {
	if !knownFuncs[name] {
		panic("expr: unknown function " + name)
	}
	return &Func{name: name, arg: arg.Simplify()}
}

// SinOf builds sin(arg).
func SinOf(arg Expr) Expr { return funcOf("sin", arg).Simplify() }

// CosOf builds cos(arg).
func CosOf(arg Expr) Expr { return funcOf("cos", arg).Simplify() }

// TanOf builds tan(arg).
func TanOf(arg Expr) Expr { return funcOf("tan", arg).Simplify() }

// AsinOf builds asin(arg).
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }

// AcosOf builds acos(arg).
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }

// AtanOf builds atan(arg).
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }

// SinhOf builds sinh(arg).
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }

// CoshOf builds cosh(arg).
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }

// TanhOf builds tanh(arg).
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

// ExpOf builds exp(arg).
func ExpOf(arg Expr) Expr { return funcOf("exp", arg).Simplify() }

// LogOf builds the natural logarithm log(arg).
func LogOf(arg Expr) Expr { return funcOf("log", arg).Simplify() }

// RootOf builds an opaque marker for a root of the polynomial given as
// argument. It carries no evaluation rules.
func RootOf(poly Expr) Expr { return funcOf("RootOf", poly) }

// FuncOf builds the named function applied to arg. It panics on names
// outside the supported set.
func FuncOf(name string, arg Expr) Expr { return funcOf(name, arg).Simplify() }

// Name returns the function name.
func (f *Func) Name() string { return f.name }

// Arg returns the function argument.
func (f *Func) Arg() Expr { return f.arg }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		switch f.name {
		case "sin", "tan", "sinh", "tanh", "asin", "atan":
			if n.isZero() {
				return N(0)
			}
		case "cos", "cosh":
			if n.isZero() {
				return N(1)
			}
		case "exp":
			if n.isZero() {
				return N(1)
			}
		case "log":
			if n.isOne() {
				return N(0)
			}
		}
	}
	// log(exp(u)) and exp(log(u)) cancel.
	if g, ok := arg.(*Func); ok {
		if f.name == "log" && g.name == "exp" {
			return g.arg
		}
		if f.name == "exp" && g.name == "log" {
			return g.arg
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string {
	return fmt.Sprintf("%s(%s)", f.name, f.arg.String())
}

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.name {
	case "exp":
		return fmt.Sprintf("e^{%s}", arg)
	case "log":
		return fmt.Sprintf("\\ln\\left(%s\\right)", arg)
	case "asin", "acos", "atan":
		return fmt.Sprintf("\\arc%s\\left(%s\\right)", f.name[1:], arg)
	case "RootOf":
		return fmt.Sprintf("\\mathrm{RootOf}\\left(%s\\right)", arg)
	}
	return fmt.Sprintf("\\%s\\left(%s\\right)", f.name, arg)
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

// Diff applies the chain rule with the table of elementary derivatives.
func (f *Func) Diff(varName string) Expr {
	da := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "exp":
		outer = ExpOf(f.arg)
	case "log":
		outer = PowOf(f.arg, N(-1))
	case "RootOf":
		return N(0)
	default:
		panic("expr: no derivative rule for " + f.name)
	}
	return MulOf(outer, da)
}

func (f *Func) Eval() (float64, bool) {
	a, ok := f.arg.Eval()
	if !ok {
		return 0, false
	}
	var v float64
	switch f.name {
	case "sin":
		v = math.Sin(a)
	case "cos":
		v = math.Cos(a)
	case "tan":
		v = math.Tan(a)
	case "asin":
		v = math.Asin(a)
	case "acos":
		v = math.Acos(a)
	case "atan":
		v = math.Atan(a)
	case "sinh":
		v = math.Sinh(a)
	case "cosh":
		v = math.Cosh(a)
	case "tanh":
		v = math.Tanh(a)
	case "exp":
		v = math.Exp(a)
	case "log":
		if a <= 0 {
			return 0, false
		}
		v = math.Log(a)
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.Simplify().(*Func)
	if !ok {
		return false
	}
	s, sok := f.Simplify().(*Func)
	if !sok {
		return f.Simplify().Equal(other)
	}
	return s.name == o.name && s.arg.Equal(o.arg)
}

func (f *Func) kind() string { return "func" }

func (f *Func) toJSON() map[string]any {
	return map[string]any{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}

func floatPow(b, e float64) (float64, bool) {
	v := math.Pow(b, e)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
