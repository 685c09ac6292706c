package curve

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/meenmo/fipricer/calendar"
	"github.com/meenmo/fipricer/numeric"
	"github.com/meenmo/fipricer/utils"
)

// repriceTol is the maximum relative error allowed when checking each input
// instrument against the finished curve.
const repriceTol = 1e-8

// Swap pillars are refined jointly until no pillar moves by more than
// pillarShiftTol between sweeps.
const (
	maxBootstrapSweeps = 50
	pillarShiftTol     = 1e-12
)

// Bootstrapper builds discount curves from market quotes.
type Bootstrapper struct {
	log zerolog.Logger
}

// NewBootstrapper returns a Bootstrapper that traces pillar solving through
// the given logger. Use zerolog.Nop() to disable.
func NewBootstrapper(log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{log: log}
}

// Bootstrap builds a curve with logging disabled.
func Bootstrap(settlement time.Time, deposits, swaps []Quote, conv Conventions) (*DiscountCurve, error) {
	return NewBootstrapper(zerolog.Nop()).Bootstrap(settlement, deposits, swaps, conv)
}

type swapCoupon struct {
	payDate time.Time
	accrual float64
}

// fixedLegCoupons rolls the fixed leg backward from maturity, Bloomberg
// SWPM style, so coupon dates align with the swap maturity.
func fixedLegCoupons(settlement, maturity time.Time, conv Conventions) []swapCoupon {
	var unadjusted []time.Time
	current := maturity
	for current.After(settlement) {
		unadjusted = append([]time.Time{current}, unadjusted...)
		current = utils.AddMonth(current, -conv.FixedFreqMonths)
	}
	unadjusted = append([]time.Time{settlement}, unadjusted...)

	coupons := make([]swapCoupon, 0, len(unadjusted)-1)
	for i := 0; i < len(unadjusted)-1; i++ {
		start := calendar.Adjust(conv.Calendar, unadjusted[i])
		end := calendar.Adjust(conv.Calendar, unadjusted[i+1])
		coupons = append(coupons, swapCoupon{
			payDate: end,
			accrual: utils.YearFraction(start, end, conv.FixedDayCount),
		})
	}
	return coupons
}

// Bootstrap derives discount factors that exactly reprice the given
// deposit and swap quotes, then wraps them in an immutable DiscountCurve.
//
// Short-end deposits solve in closed form (simple compounding); each swap
// pillar is a one-dimensional root-find on its maturity discount factor
// against the telescoped floating leg. The natural cubic interpolant is
// global, so a pillar added later shifts interpolated DFs at earlier swaps'
// interior coupon dates: after the sequential first pass, all swap pillars
// are re-solved against the full knot vector in Gauss-Seidel sweeps until
// the pillar set is a fixed point of its own interpolant.
func (b *Bootstrapper) Bootstrap(settlement time.Time, deposits, swaps []Quote, conv Conventions) (*DiscountCurve, error) {
	conv = conv.withDefaults()

	if len(deposits)+len(swaps) == 0 {
		return nil, fmt.Errorf("Bootstrap: no quotes: %w", ErrBootstrap)
	}
	for _, q := range append(append([]Quote{}, deposits...), swaps...) {
		if math.Abs(q.Rate) >= 1 {
			return nil, fmt.Errorf("Bootstrap: implausible rate %g for tenor %s: %w", q.Rate, q.Tenor, ErrBootstrap)
		}
	}

	var (
		dates []time.Time
		times []float64
		dfs   []float64
	)
	lastT := 0.0

	// Short end: deposits, closed form.
	deps, err := sortByMaturity(deposits, settlement, conv.Calendar)
	if err != nil {
		return nil, fmt.Errorf("Bootstrap: %v: %w", err, ErrBootstrap)
	}
	for _, q := range deps {
		tau := utils.YearFraction(settlement, q.maturity, conv.DepositDayCount)
		t := utils.YearFraction(settlement, q.maturity, conv.CurveDayCount)
		if t <= lastT {
			return nil, fmt.Errorf("Bootstrap: deposit %s overlaps previous pillar: %w", q.quote.Tenor, ErrBootstrap)
		}
		df := 1.0 / (1.0 + q.quote.Rate*tau)
		dates = append(dates, q.maturity)
		times = append(times, t)
		dfs = append(dfs, df)
		lastT = t
		b.log.Debug().Str("tenor", q.quote.Tenor).Float64("df", df).Msg("deposit pillar")
	}

	// Long end: swap pillars, increasing tenor, sequential first pass.
	sws, err := sortByMaturity(swaps, settlement, conv.Calendar)
	if err != nil {
		return nil, fmt.Errorf("Bootstrap: %v: %w", err, ErrBootstrap)
	}
	coupons := make([][]swapCoupon, len(sws))
	for i, q := range sws {
		t := utils.YearFraction(settlement, q.maturity, conv.CurveDayCount)
		if t <= lastT {
			return nil, fmt.Errorf("Bootstrap: swap %s overlaps previous pillar: %w", q.quote.Tenor, ErrBootstrap)
		}
		coupons[i] = fixedLegCoupons(settlement, q.maturity, conv)

		guess := 1.0
		if len(dfs) > 0 {
			guess = dfs[len(dfs)-1]
		}
		dates = append(dates, q.maturity)
		times = append(times, t)
		dfs = append(dfs, guess)

		df, err := b.solveSwapPillar(settlement, q, coupons[i], times, dfs, len(dfs)-1, conv)
		if err != nil {
			return nil, fmt.Errorf("Bootstrap: swap pillar %s: %w", q.quote.Tenor, err)
		}
		dfs[len(dfs)-1] = df
		lastT = t
		b.log.Debug().Str("tenor", q.quote.Tenor).Float64("df", df).Msg("swap pillar")
	}

	// Refinement sweeps over the full knot vector.
	nDeps := len(deps)
	for sweep := 0; len(sws) > 1 && sweep < maxBootstrapSweeps; sweep++ {
		maxShift := 0.0
		for i, q := range sws {
			k := nDeps + i
			df, err := b.solveSwapPillar(settlement, q, coupons[i], times, dfs, k, conv)
			if err != nil {
				return nil, fmt.Errorf("Bootstrap: swap pillar %s: %w", q.quote.Tenor, err)
			}
			if shift := math.Abs(df - dfs[k]); shift > maxShift {
				maxShift = shift
			}
			dfs[k] = df
		}
		b.log.Debug().Int("sweep", sweep).Float64("maxShift", maxShift).Msg("pillar refinement")
		if maxShift < pillarShiftTol {
			break
		}
	}

	pillars := make([]Pillar, len(dfs))
	for i := range dfs {
		pillars[i] = Pillar{Date: dates[i], Time: times[i], DF: dfs[i]}
	}
	crv, err := newDiscountCurve(settlement, conv.CurveDayCount, pillars)
	if err != nil {
		return nil, fmt.Errorf("Bootstrap: %w", err)
	}

	if err := b.verifyReprice(crv, deps, sws, conv); err != nil {
		return nil, err
	}
	return crv, nil
}

// solveSwapPillar finds DF at pillar k such that the swap's fixed leg
// annuity reprices the par rate against the telescoped floating leg
// PV_float = 1 - DF(T). The objective refits the interpolant through the
// whole knot vector per iterate, with only slot k varying, so the solve is
// against the same spline the finished curve will carry.
func (b *Bootstrapper) solveSwapPillar(settlement time.Time, q datedQuote, coupons []swapCoupon, times, dfs []float64, k int, conv Conventions) (float64, error) {
	hi := 1.0
	if k > 0 {
		hi = dfs[k-1]
	}

	candidate := make([]float64, len(dfs))
	objective := func(df float64) float64 {
		copy(candidate, dfs)
		candidate[k] = df
		ip, err := fitLogDF(times, candidate)
		if err != nil {
			return math.NaN()
		}
		annuity := 0.0
		for _, cpn := range coupons {
			tp := utils.YearFraction(settlement, cpn.payDate, conv.CurveDayCount)
			annuity += cpn.accrual * ip.discount(tp)
		}
		return q.quote.Rate*annuity - (1.0 - df)
	}

	df, err := numeric.Brent(objective, 1e-6, hi, numeric.Options{Tol: 1e-14, MaxIter: 100})
	if err != nil {
		return 0, err
	}
	return df, nil
}

// verifyReprice checks the bootstrap round-trip: every input instrument's
// implied rate on the finished curve must match its quote within tolerance.
func (b *Bootstrapper) verifyReprice(crv *DiscountCurve, deps, sws []datedQuote, conv Conventions) error {
	for _, q := range deps {
		tau := utils.YearFraction(crv.settlement, q.maturity, conv.DepositDayCount)
		implied := (1.0/crv.DF(q.maturity) - 1.0) / tau
		if relErr(implied, q.quote.Rate) > repriceTol {
			return fmt.Errorf("Bootstrap: deposit %s reprices to %.10f vs quote %.10f: %w",
				q.quote.Tenor, implied, q.quote.Rate, ErrBootstrap)
		}
	}
	for _, q := range sws {
		annuity := 0.0
		for _, cpn := range fixedLegCoupons(crv.settlement, q.maturity, conv) {
			annuity += cpn.accrual * crv.DF(cpn.payDate)
		}
		implied := (1.0 - crv.DF(q.maturity)) / annuity
		if relErr(implied, q.quote.Rate) > repriceTol {
			return fmt.Errorf("Bootstrap: swap %s reprices to %.10f vs quote %.10f: %w",
				q.quote.Tenor, implied, q.quote.Rate, ErrBootstrap)
		}
	}
	return nil
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Max(math.Abs(want), 1e-12)
}

type datedQuote struct {
	quote    Quote
	maturity time.Time
}

func sortByMaturity(quotes []Quote, settlement time.Time, cal calendar.CalendarID) ([]datedQuote, error) {
	out := make([]datedQuote, 0, len(quotes))
	for _, q := range quotes {
		m, err := q.Maturity(settlement, cal)
		if err != nil {
			return nil, err
		}
		out = append(out, datedQuote{quote: q, maturity: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].maturity.Before(out[j].maturity) })
	return out, nil
}
