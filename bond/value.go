package bond

import "time"

// PresentValue discounts a cashflow set against a curve, expressed at the
// settlement date. Flows strictly before settlement are dropped; the sum is
// rebased by 1/DF(settlement) when settlement is past the curve's reference
// date. Pure function.
func PresentValue(cfs []Cashflow, crv DiscountCurve, settlement time.Time) float64 {
	pv := 0.0
	for _, cf := range cfs {
		if cf.Date.Before(settlement) {
			continue
		}
		pv += cf.Amount() * crv.DF(cf.Date)
	}
	return pv / crv.DF(settlement)
}
