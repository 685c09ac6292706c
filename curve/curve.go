// Package curve bootstraps discount curves from deposit and par swap quotes
// and exposes an immutable query surface over the result.
//
// A DiscountCurve is built once per currency and evaluation date, is never
// mutated afterwards, and is safe for concurrent read-only use. Rebuilding
// means constructing a new value.
package curve

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/meenmo/fipricer/utils"
)

// Pillar is one bootstrapped curve node.
type Pillar struct {
	Date time.Time
	Time float64 // year fraction from settlement on the curve day count
	DF   float64
}

// interpolant is a natural cubic spline over (t, ln DF) knots, with
// flat-forward extrapolation beyond the last knot.
type interpolant struct {
	spline  interp.NaturalCubic
	lastT   float64
	lastLn  float64
	lastFwd float64 // instantaneous forward at the last knot
}

// fitLogDF fits the spline through (0, 0) plus the supplied knots.
// Times must be strictly increasing and positive; dfs must be positive.
func fitLogDF(times, dfs []float64) (*interpolant, error) {
	xs := make([]float64, 0, len(times)+1)
	ys := make([]float64, 0, len(times)+1)
	xs = append(xs, 0)
	ys = append(ys, 0)
	prev := 0.0
	for i, t := range times {
		if t <= prev {
			return nil, fmt.Errorf("fitLogDF: pillar times not strictly increasing at %g", t)
		}
		if dfs[i] <= 0 {
			return nil, fmt.Errorf("fitLogDF: non-positive discount factor %g at t=%g", dfs[i], t)
		}
		xs = append(xs, t)
		ys = append(ys, math.Log(dfs[i]))
		prev = t
	}

	ip := &interpolant{}
	if err := ip.spline.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitLogDF: %w", err)
	}
	ip.lastT = xs[len(xs)-1]
	ip.lastLn = ys[len(ys)-1]
	ip.lastFwd = -ip.spline.PredictDerivative(ip.lastT)
	return ip, nil
}

func (ip *interpolant) discount(t float64) float64 {
	switch {
	case t <= 0:
		return 1.0
	case t > ip.lastT:
		// Flat forward past the last pillar.
		return math.Exp(ip.lastLn - ip.lastFwd*(t-ip.lastT))
	default:
		return math.Exp(ip.spline.Predict(t))
	}
}

// DiscountCurve is the immutable result of a bootstrap.
type DiscountCurve struct {
	settlement time.Time
	dayCount   string
	pillars    []Pillar
	interp     *interpolant
}

// newDiscountCurve validates the pillar set and fits the interpolant.
// Discount factors must be positive and non-increasing in time.
func newDiscountCurve(settlement time.Time, dayCount string, pillars []Pillar) (*DiscountCurve, error) {
	if len(pillars) == 0 {
		return nil, fmt.Errorf("newDiscountCurve: no pillars: %w", ErrBootstrap)
	}

	times := make([]float64, len(pillars))
	dfs := make([]float64, len(pillars))
	prevDF := 1.0
	for i, p := range pillars {
		if p.DF <= 0 || p.DF > prevDF+1e-12 {
			return nil, fmt.Errorf("newDiscountCurve: DF(%s)=%g after DF=%g: %w",
				p.Date.Format("2006-01-02"), p.DF, prevDF, ErrCurveInversion)
		}
		times[i] = p.Time
		dfs[i] = p.DF
		prevDF = p.DF
	}

	ip, err := fitLogDF(times, dfs)
	if err != nil {
		return nil, fmt.Errorf("newDiscountCurve: %v: %w", err, ErrBootstrap)
	}

	return &DiscountCurve{
		settlement: settlement,
		dayCount:   dayCount,
		pillars:    pillars,
		interp:     ip,
	}, nil
}

// Settlement returns the curve's reference date.
func (c *DiscountCurve) Settlement() time.Time { return c.settlement }

// DayCount returns the curve's time-axis day count convention.
func (c *DiscountCurve) DayCount() string { return c.dayCount }

// Pillars returns a copy of the bootstrapped nodes.
func (c *DiscountCurve) Pillars() []Pillar {
	out := make([]Pillar, len(c.pillars))
	copy(out, c.pillars)
	return out
}

// T converts a date to the curve's time axis.
func (c *DiscountCurve) T(d time.Time) float64 {
	return utils.YearFraction(c.settlement, d, c.dayCount)
}

// Discount returns the discount factor at time t (1 for t <= 0).
func (c *DiscountCurve) Discount(t float64) float64 {
	return c.interp.discount(t)
}

// DF returns the discount factor at a date.
func (c *DiscountCurve) DF(d time.Time) float64 {
	return c.Discount(c.T(d))
}

// ZeroRate returns the continuously compounded zero rate over [0, t].
func (c *DiscountCurve) ZeroRate(t float64) (float64, error) {
	if t <= 0 {
		return 0, fmt.Errorf("ZeroRate: t=%g: %w", t, ErrDomain)
	}
	return -math.Log(c.Discount(t)) / t, nil
}

// ZeroRateAt returns the continuously compounded zero rate to a date.
func (c *DiscountCurve) ZeroRateAt(d time.Time) (float64, error) {
	return c.ZeroRate(c.T(d))
}

// ForwardRate returns the continuously compounded forward rate over (t1, t2].
func (c *DiscountCurve) ForwardRate(t1, t2 float64) (float64, error) {
	if t2 <= t1 {
		return 0, fmt.Errorf("ForwardRate: t2=%g <= t1=%g: %w", t2, t1, ErrDomain)
	}
	return -math.Log(c.Discount(t2)/c.Discount(t1)) / (t2 - t1), nil
}

// ForwardRateBetween returns the continuously compounded forward rate
// between two dates.
func (c *DiscountCurve) ForwardRateBetween(d1, d2 time.Time) (float64, error) {
	return c.ForwardRate(c.T(d1), c.T(d2))
}
