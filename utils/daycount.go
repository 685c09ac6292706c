package utils

import "time"

// Day count convention names accepted by YearFraction.
const (
	Act360     = "ACT/360"
	Act365F    = "ACT/365F"
	Thirty360  = "30/360"
	ThirtyE360 = "30E/360"
)

// YearFraction computes the accrual fraction between two dates under the
// given day count convention. Unknown conventions fall back to ACT/365F.
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case Act360:
		return Days(start, end) / 360.0
	case Act365F:
		return Days(start, end) / 365.0
	case Thirty360:
		// 30/360 US (Bond Basis): D1 capped at 30; D2 capped only when D1 is 30.
		d1 := start.Day()
		d2 := end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	case ThirtyE360:
		// 30E/360 (Eurobond Basis): both day-of-month values capped at 30.
		d1 := start.Day()
		d2 := end.Day()
		if d1 > 30 {
			d1 = 30
		}
		if d2 > 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	default:
		return Days(start, end) / 365.0
	}
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

// PeriodFraction is the ACT/ACT ICMA-style elapsed share of a coupon period:
// days(start, at) / days(start, end). Used for accrued interest.
func PeriodFraction(start, end, at time.Time) float64 {
	total := Days(start, end)
	if total == 0 {
		return 0
	}
	return Days(start, at) / total
}
