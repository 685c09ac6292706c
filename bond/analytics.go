package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fipricer/numeric"
	"github.com/meenmo/fipricer/utils"
)

// Analytics bundles the standard bond valuation outputs. Prices are per 100
// face; YTM is a decimal compounded at the coupon frequency.
type Analytics struct {
	Dirty            float64
	Clean            float64
	Accrued          float64
	YTM              float64
	ModifiedDuration float64
	MacaulayDuration float64
	Convexity        float64
	BPV              float64
}

// futureFlows returns the cashflows strictly after settlement in per-100
// terms, with their year fractions from settlement on ACT/365F.
func (b Bond) futureFlows(settlement time.Time) (amounts, times []float64, err error) {
	cfs, err := b.Cashflows()
	if err != nil {
		return nil, nil, err
	}
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		amounts = append(amounts, cf.Amount()*100.0/b.Face)
		times = append(times, utils.YearFraction(settlement, cf.Date, utils.Act365F))
	}
	if len(amounts) == 0 {
		return nil, nil, fmt.Errorf("Bond: no cashflows after %s: %w", settlement.Format("2006-01-02"), ErrInvalidInstrument)
	}
	return amounts, times, nil
}

// DirtyPrice discounts the remaining coupons and redemption on the curve,
// rebased to settlement, per 100 face. A coupon falling exactly on
// settlement belongs to the seller and is excluded.
func (b Bond) DirtyPrice(crv DiscountCurve, settlement time.Time) (float64, error) {
	cfs, err := b.Cashflows()
	if err != nil {
		return 0, err
	}
	pv := 0.0
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		pv += cf.Amount() * crv.DF(cf.Date)
	}
	return pv / crv.DF(settlement) * 100.0 / b.Face, nil
}

// AccruedInterest is the elapsed share of the current coupon, per 100 face,
// under the bond's own day count. Zero on a coupon date.
func (b Bond) AccruedInterest(settlement time.Time) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	start, end, err := b.periodAround(settlement)
	if err != nil {
		return 0, err
	}
	full := utils.YearFraction(start, end, b.DayCount)
	if full == 0 {
		return 0, nil
	}
	elapsed := utils.YearFraction(start, settlement, b.DayCount)
	coupon := 100.0 * b.CouponRate * full
	return coupon * elapsed / full, nil
}

// CleanPrice is the dirty price net of accrued interest.
func (b Bond) CleanPrice(crv DiscountCurve, settlement time.Time) (float64, error) {
	dirty, err := b.DirtyPrice(crv, settlement)
	if err != nil {
		return 0, err
	}
	accrued, err := b.AccruedInterest(settlement)
	if err != nil {
		return 0, err
	}
	return dirty - accrued, nil
}

// priceDerivs returns the dirty price for a yield compounded at the coupon
// frequency, together with its first and second analytic derivatives.
func (b Bond) priceDerivs(y float64, amounts, times []float64) (p, dp, d2p float64) {
	f := float64(b.CouponsPerYear)
	base := 1.0 + y/f
	for i, a := range amounts {
		t := times[i]
		disc := math.Pow(base, -f*t)
		p += a * disc
		dp -= a * t * math.Pow(base, -f*t-1)
		d2p += a * t * (t + 1.0/f) * math.Pow(base, -f*t-2)
	}
	return p, dp, d2p
}

// PriceFromYield returns the dirty price per 100 implied by a yield.
func (b Bond) PriceFromYield(y float64, settlement time.Time) (float64, error) {
	amounts, times, err := b.futureFlows(settlement)
	if err != nil {
		return 0, err
	}
	p, _, _ := b.priceDerivs(y, amounts, times)
	return p, nil
}

const (
	yieldFloor   = -0.05
	yieldCeiling = 0.50
)

// Yield solves for the yield-to-maturity matching a dirty price.
//
// Newton-Raphson with the analytic dP/dy, seeded at the running coupon
// yield; falls back to a bracketed solve over [-5%, 50%] when Newton
// diverges or the derivative collapses.
func (b Bond) Yield(dirtyPrice float64, settlement time.Time) (float64, error) {
	amounts, times, err := b.futureFlows(settlement)
	if err != nil {
		return 0, err
	}

	objective := func(y float64) (float64, float64) {
		p, dp, _ := b.priceDerivs(y, amounts, times)
		return p - dirtyPrice, dp
	}

	seed := b.CouponRate / (dirtyPrice / 100.0)
	seed = math.Min(math.Max(seed, 0.001), 0.30)

	y, err := numeric.Newton(objective, seed, numeric.Options{Tol: 1e-10, MaxIter: 100})
	if err == nil && y > yieldFloor && y < yieldCeiling {
		return y, nil
	}

	y, err = numeric.Brent(func(y float64) float64 {
		p, _, _ := b.priceDerivs(y, amounts, times)
		return p - dirtyPrice
	}, yieldFloor, yieldCeiling, numeric.Options{Tol: 1e-12, MaxIter: 100})
	if err != nil {
		return 0, fmt.Errorf("Yield: %w", err)
	}
	return y, nil
}

// ModifiedDuration is -(1/P) dP/dy at the given yield.
func (b Bond) ModifiedDuration(y float64, settlement time.Time) (float64, error) {
	amounts, times, err := b.futureFlows(settlement)
	if err != nil {
		return 0, err
	}
	p, dp, _ := b.priceDerivs(y, amounts, times)
	if p == 0 {
		return 0, fmt.Errorf("ModifiedDuration: zero price: %w", ErrInvalidInstrument)
	}
	return -dp / p, nil
}

// MacaulayDuration is the modified duration scaled by one compounding period.
func (b Bond) MacaulayDuration(y float64, settlement time.Time) (float64, error) {
	mod, err := b.ModifiedDuration(y, settlement)
	if err != nil {
		return 0, err
	}
	return mod * (1.0 + y/float64(b.CouponsPerYear)), nil
}

// Convexity is (1/P) d2P/dy2 at the given yield.
func (b Bond) Convexity(y float64, settlement time.Time) (float64, error) {
	amounts, times, err := b.futureFlows(settlement)
	if err != nil {
		return 0, err
	}
	p, _, d2p := b.priceDerivs(y, amounts, times)
	if p == 0 {
		return 0, fmt.Errorf("Convexity: zero price: %w", ErrInvalidInstrument)
	}
	return d2p / p, nil
}

// ComputeAnalytics prices the bond on the curve and derives the full result
// set: prices, yield, durations, convexity, and basis-point value.
func (b Bond) ComputeAnalytics(crv DiscountCurve, settlement time.Time) (Analytics, error) {
	dirty, err := b.DirtyPrice(crv, settlement)
	if err != nil {
		return Analytics{}, err
	}
	accrued, err := b.AccruedInterest(settlement)
	if err != nil {
		return Analytics{}, err
	}
	ytm, err := b.Yield(dirty, settlement)
	if err != nil {
		return Analytics{}, err
	}
	mod, err := b.ModifiedDuration(ytm, settlement)
	if err != nil {
		return Analytics{}, err
	}
	convexity, err := b.Convexity(ytm, settlement)
	if err != nil {
		return Analytics{}, err
	}

	return Analytics{
		Dirty:            dirty,
		Clean:            dirty - accrued,
		Accrued:          accrued,
		YTM:              ytm,
		ModifiedDuration: mod,
		MacaulayDuration: mod * (1.0 + ytm/float64(b.CouponsPerYear)),
		Convexity:        convexity,
		BPV:              mod * dirty / 10000.0,
	}, nil
}
