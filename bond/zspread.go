package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fipricer/numeric"
	"github.com/meenmo/fipricer/utils"
)

// Z-spread search bracket, in decimal. Prices outside the range implied by
// these bounds are economically implausible for the given curve.
const (
	zSpreadLo = -0.05
	zSpreadHi = 0.50
)

// ZSpread solves for the constant continuously compounded shift z to the
// curve's zero rates that reprices the bond to its dirty market price:
//
//	sum A_i * DF(t_i) * exp(-z*t_i) = dirtyMarket
//
// Price is strictly decreasing in z, so a bracketed solve suffices.
// numeric.ErrNoRootInBracket is returned when the target price does not
// straddle the bracket; numeric.ErrConvergence when the cap is exceeded.
func ZSpread(b Bond, dirtyMarket float64, crv DiscountCurve, settlement time.Time) (float64, error) {
	if dirtyMarket <= 0 {
		return 0, fmt.Errorf("ZSpread: dirty price %g must be positive: %w", dirtyMarket, ErrInvalidInstrument)
	}
	cfs, err := b.Cashflows()
	if err != nil {
		return 0, err
	}

	ref := crv.Settlement()
	dc := crv.DayCount()
	tSettle := utils.YearFraction(ref, settlement, dc)

	price := func(z float64) float64 {
		pv := 0.0
		for _, cf := range cfs {
			if !cf.Date.After(settlement) {
				continue
			}
			t := utils.YearFraction(ref, cf.Date, dc)
			pv += cf.Amount() * crv.DF(cf.Date) * math.Exp(-z*t)
		}
		pv /= crv.DF(settlement) * math.Exp(-z*tSettle)
		return pv * 100.0 / b.Face
	}

	z, err := numeric.Brent(func(z float64) float64 {
		return price(z) - dirtyMarket
	}, zSpreadLo, zSpreadHi, numeric.Options{Tol: 1e-12, MaxIter: 100})
	if err != nil {
		return 0, fmt.Errorf("ZSpread: %w", err)
	}
	return z, nil
}
