// Package risch provides exact symbolic integration of elementary
// transcendental functions over the rational numbers, following the
// transcendental case of the Risch algorithm.
//
// The entry point is Integrate. Results are exact: a returned value
// with no residual differentiates back to the integrand. Pieces the
// algorithm proves or assumes non-elementary come back inside an
// unevaluated expr.Integral and are reported through Result.Residual.
package risch

import (
	"errors"

	"go.uber.org/zap"

	"risch/expr"
	"risch/internal/fault"
	"risch/internal/integrate"
	"risch/internal/tower"
)

// Options control one integration run.
type Options struct {
	// UseAlgebraicNumbers admits quadratic algebraic constants from
	// the start. When false, the pipeline restarts once over the
	// extended field if the computation demands it.
	UseAlgebraicNumbers bool
	// CatchUnsupported turns unsupported-input errors into a symbolic
	// integral result instead of an error.
	CatchUnsupported bool
	// CatchAlgorithmFailure does the same for internal algorithm
	// failures.
	CatchAlgorithmFailure bool
	// Logger receives debug traces of the run. Nil disables tracing.
	Logger *zap.Logger
}

// DefaultOptions enables both degradation paths over the rational
// constant field.
func DefaultOptions() *Options {
	return &Options{CatchUnsupported: true, CatchAlgorithmFailure: true}
}

// Result is the outcome of an integration.
type Result struct {
	// Value is the antiderivative, including an unevaluated integral
	// of the residual when the answer is not closed.
	Value expr.Expr
	// Residual is the unintegrated part of the integrand, nil when
	// the answer is closed.
	Residual expr.Expr
}

// Closed reports whether the whole integrand was integrated in
// elementary terms.
func (r Result) Closed() bool { return r.Residual == nil }

// Integrate computes an antiderivative of f with respect to varName.
// Nil opts mean DefaultOptions.
func Integrate(f expr.Expr, varName string, opts *Options) (Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	res, err := run(f, varName, opts.UseAlgebraicNumbers, lg)
	if err != nil && errors.Is(err, fault.ErrNeedAlgebraic) && !opts.UseAlgebraicNumbers {
		lg.Debug("restarting over an algebraic constant field")
		res, err = run(f, varName, true, lg)
	}
	if err != nil {
		if errors.Is(err, fault.ErrNeedAlgebraic) {
			err = fault.Algorithmf("algebraic field extension requested twice")
		}
		degrade := (errors.Is(err, fault.ErrUnsupported) && opts.CatchUnsupported) ||
			(errors.Is(err, fault.ErrAlgorithm) && opts.CatchAlgorithmFailure)
		if degrade {
			lg.Info("degrading to a symbolic integral", zap.Error(err))
			g := f.Simplify()
			return Result{Value: expr.IntegralOf(g, varName), Residual: g}, nil
		}
		return Result{}, err
	}
	return res, nil
}

// IntegrateString parses input and integrates it.
func IntegrateString(input, varName string, opts *Options) (Result, error) {
	e, err := expr.Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Integrate(e, varName, opts)
}

// run executes one pass of the pipeline: rewrite, classify, build the
// tower, lower, integrate, reconstruct. Panics from the algebra layer
// are algorithm failures; malformed-tower assertions propagate.
func run(f expr.Expr, varName string, algebraic bool, lg *zap.Logger) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ta, ok := r.(fault.TowerAssert); ok {
				panic(ta)
			}
			err = fault.Algorithmf("internal failure: %v", r)
		}
	}()

	g, err := tower.Rewrite(f.Simplify(), varName)
	if err != nil {
		return Result{}, err
	}
	terms, err := tower.Terms(g, varName)
	if err != nil {
		return Result{}, err
	}
	tw, err := tower.Build(terms, varName, algebraic)
	if err != nil {
		return Result{}, err
	}
	lg.Debug("tower built",
		zap.Int("height", tw.Height()),
		zap.Bool("algebraic", algebraic))
	el, err := tw.ToElem(g)
	if err != nil {
		return Result{}, err
	}
	ans, err := integrate.New(tw, lg).Run(el)
	if err != nil {
		return Result{}, err
	}
	value, residual := reconstruct(tw, ans)
	if residual != nil {
		value = expr.AddOf(value, expr.IntegralOf(residual, varName))
	}
	return Result{Value: value.Simplify(), Residual: residual}, nil
}
