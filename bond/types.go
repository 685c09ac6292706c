// Package bond derives fixed-rate bond cashflows and prices them against a
// discount curve: dirty/clean price, accrued interest, yield, risk measures,
// asset-swap spread and Z-spread.
package bond

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/fipricer/calendar"
	"github.com/meenmo/fipricer/utils"
)

// ErrInvalidInstrument is returned for malformed bond definitions,
// rejected before any computation.
var ErrInvalidInstrument = errors.New("bond: invalid instrument")

// DiscountCurve is the read-only curve surface bond pricing consumes.
// *curve.DiscountCurve satisfies it.
type DiscountCurve interface {
	DF(d time.Time) float64
	Settlement() time.Time
	DayCount() string
}

// Cashflow is a single dated cash payment.
//
// Amounts are in price-per-100 terms when Face is 100.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Bond is a plain fixed-coupon bullet bond. Pure value; cashflows are
// derived on demand and never cached.
type Bond struct {
	Face           float64
	CouponRate     float64 // decimal, 0.0325 == 3.25%
	CouponsPerYear int
	DayCount       string
	IssueDate      time.Time
	MaturityDate   time.Time
	Calendar       calendar.CalendarID
}

// Validate rejects inconsistent definitions before any pricing runs.
func (b Bond) Validate() error {
	if b.Face <= 0 {
		return fmt.Errorf("Bond: face %g must be positive: %w", b.Face, ErrInvalidInstrument)
	}
	if b.CouponsPerYear <= 0 || 12%b.CouponsPerYear != 0 {
		return fmt.Errorf("Bond: unsupported coupon frequency %d: %w", b.CouponsPerYear, ErrInvalidInstrument)
	}
	if !b.MaturityDate.After(b.IssueDate) {
		return fmt.Errorf("Bond: maturity %s not after issue %s: %w",
			b.MaturityDate.Format("2006-01-02"), b.IssueDate.Format("2006-01-02"), ErrInvalidInstrument)
	}
	return nil
}

// couponDates rolls the unadjusted coupon schedule backward from maturity
// so dates align with the maturity anniversary.
func (b Bond) couponDates() []time.Time {
	months := 12 / b.CouponsPerYear
	var dates []time.Time
	current := b.MaturityDate
	for current.After(b.IssueDate) {
		dates = append([]time.Time{current}, dates...)
		current = utils.AddMonth(current, -months)
	}
	return append([]time.Time{current}, dates...)
}

// Cashflows derives the full coupon stream plus redemption. Payment dates
// are business-day adjusted; accrual runs on unadjusted period dates, the
// usual government/corporate bond convention.
func (b Bond) Cashflows() ([]Cashflow, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	dates := b.couponDates()
	out := make([]Cashflow, 0, len(dates))
	for i := 1; i < len(dates); i++ {
		tau := utils.YearFraction(dates[i-1], dates[i], b.DayCount)
		cf := Cashflow{
			Date:   calendar.Adjust(b.Calendar, dates[i]),
			Coupon: b.Face * b.CouponRate * tau,
		}
		if i == len(dates)-1 {
			cf.Principal = b.Face
		}
		out = append(out, cf)
	}
	return out, nil
}

// periodAround returns the unadjusted coupon period containing the
// settlement date.
func (b Bond) periodAround(settlement time.Time) (start, end time.Time, err error) {
	dates := b.couponDates()
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].After(settlement) && dates[i].After(settlement) {
			return dates[i-1], dates[i], nil
		}
	}
	if settlement.Equal(b.MaturityDate) {
		return dates[len(dates)-2], b.MaturityDate, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("Bond: settlement %s outside bond life: %w",
		settlement.Format("2006-01-02"), ErrInvalidInstrument)
}
