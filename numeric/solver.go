// Package numeric provides the scalar root-finders shared by curve
// bootstrapping, yield solving, and spread solving. Solvers are pure
// functions over objective closures: no shared state, safe to call
// concurrently.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoRootInBracket is returned when f(lo) and f(hi) do not straddle zero.
	ErrNoRootInBracket = errors.New("numeric: no root in bracket")
	// ErrConvergence is returned when the iteration cap is reached without
	// meeting tolerance.
	ErrConvergence = errors.New("numeric: solver did not converge")
)

// Options bounds an iterative solve. Zero values take the defaults
// (tolerance 1e-10, 100 iterations).
type Options struct {
	Tol     float64
	MaxIter int
}

func (o Options) withDefaults() Options {
	if o.Tol <= 0 {
		o.Tol = 1e-10
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 100
	}
	return o
}

// Brent finds a root of f in [lo, hi] using the Brent-Dekker method:
// inverse quadratic interpolation and secant steps guarded by bisection.
// The bracket must straddle a sign change.
func Brent(f func(float64) float64, lo, hi float64, opts Options) (float64, error) {
	opts = opts.withDefaults()

	a, b := lo, hi
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if fa*fb > 0 {
		return 0, fmt.Errorf("Brent: f(%g)=%g, f(%g)=%g: %w", lo, fa, hi, fb, ErrNoRootInBracket)
	}

	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	d := b - a
	mflag := true

	for iter := 0; iter < opts.MaxIter; iter++ {
		if fb == 0 || math.Abs(b-a) < opts.Tol {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant.
			s = b - fb*(b-a)/(fb-fa)
		}

		lowBound := (3*a + b) / 4
		useBisect := false
		if (s < math.Min(lowBound, b) || s > math.Max(lowBound, b)) ||
			(mflag && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!mflag && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(mflag && math.Abs(b-c) < opts.Tol) ||
			(!mflag && math.Abs(c-d) < opts.Tol) {
			s = (a + b) / 2
			useBisect = true
		}
		mflag = useBisect

		fs := f(s)
		d = c
		c, fc = b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}

	return b, fmt.Errorf("Brent: %d iterations, residual %g: %w", opts.MaxIter, math.Abs(fb), ErrConvergence)
}

// Newton finds a root via Newton-Raphson. fdf returns the objective value
// and its derivative at x. It fails with ErrConvergence when the derivative
// collapses or the iteration cap is hit; callers are expected to fall back
// to a bracketed solve.
func Newton(fdf func(x float64) (f, df float64), seed float64, opts Options) (float64, error) {
	opts = opts.withDefaults()

	x := seed
	for iter := 0; iter < opts.MaxIter; iter++ {
		fx, dfx := fdf(x)
		if math.Abs(fx) < opts.Tol {
			return x, nil
		}
		if math.Abs(dfx) < 1e-12 || math.IsNaN(fx) || math.IsInf(fx, 0) {
			return x, fmt.Errorf("Newton: derivative %g at iter %d: %w", dfx, iter, ErrConvergence)
		}
		x = x - fx/dfx
	}

	return x, fmt.Errorf("Newton: %d iterations: %w", opts.MaxIter, ErrConvergence)
}
