// Package swap values single-currency interest-rate swaps and the three
// cross-currency variants (fixed-fixed, fixed-floating, floating-floating)
// on bootstrapped discount curves.
package swap

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/fipricer/calendar"
	"github.com/meenmo/fipricer/utils"
)

var (
	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("swap: nil curve")
	// ErrInvalidInstrument is returned for malformed or inconsistent trade
	// definitions, rejected before any computation.
	ErrInvalidInstrument = errors.New("swap: invalid instrument")
)

// DiscountCurve is the read-only curve surface swap valuation consumes.
// Forward rates are projected off the same curve (single-curve setup).
type DiscountCurve interface {
	DF(d time.Time) float64
	Settlement() time.Time
}

// Period is one accrual period of a leg. Dates are business-day adjusted;
// payment falls on the adjusted period end.
type Period struct {
	Start time.Time
	End   time.Time
	Pay   time.Time
}

// GenerateSchedule rolls periods backward from maturity so coupon dates
// align with the maturity anniversary, creating a front stub if needed.
func GenerateSchedule(effective, maturity time.Time, freqMonths int, cal calendar.CalendarID) ([]Period, error) {
	if !maturity.After(effective) {
		return nil, fmt.Errorf("GenerateSchedule: maturity %s not after effective %s: %w",
			maturity.Format("2006-01-02"), effective.Format("2006-01-02"), ErrInvalidInstrument)
	}
	if freqMonths <= 0 {
		return nil, fmt.Errorf("GenerateSchedule: unsupported frequency %d months: %w", freqMonths, ErrInvalidInstrument)
	}

	var unadjusted []time.Time
	current := maturity
	for current.After(effective) {
		unadjusted = append([]time.Time{current}, unadjusted...)
		current = utils.AddMonth(current, -freqMonths)
	}
	unadjusted = append([]time.Time{effective}, unadjusted...)

	periods := make([]Period, 0, len(unadjusted)-1)
	for i := 1; i < len(unadjusted); i++ {
		start := calendar.Adjust(cal, unadjusted[i-1])
		end := calendar.Adjust(cal, unadjusted[i])
		periods = append(periods, Period{Start: start, End: end, Pay: end})
	}
	return periods, nil
}

// forwardRate is the simple forward implied by the curve over [start, end].
func forwardRate(crv DiscountCurve, start, end time.Time, dayCount string) float64 {
	tau := utils.YearFraction(start, end, dayCount)
	if tau == 0 {
		return 0
	}
	return (crv.DF(start)/crv.DF(end) - 1.0) / tau
}
