package calendar

import "time"

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// TARGET is the Trans-European settlement calendar (EUR).
	TARGET CalendarID = "TARGET"
	// US is the United States Federal Reserve calendar (USD).
	US CalendarID = "US"
	// WeekendsOnly skips Saturdays and Sundays with no holiday set.
	WeekendsOnly CalendarID = "WEEKENDS"
)

// Fixed-date holidays only. Moveable feasts (Easter-linked days, US
// Monday-observed holidays) shift single pillar dates by at most one
// business day and are not modelled.
var targetHolidays = map[string]struct{}{
	"01-01": {}, // New Year's Day
	"05-01": {}, // Labour Day
	"12-25": {}, // Christmas Day
	"12-26": {}, // St. Stephen's Day
}

var usHolidays = map[string]struct{}{
	"01-01": {}, // New Year's Day
	"07-04": {}, // Independence Day
	"12-25": {}, // Christmas Day
}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("01-02")
	switch cal {
	case TARGET:
		_, ok := targetHolidays[key]
		return ok
	case US:
		_, ok := usHolidays[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and the calendar's holiday set.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following: roll forward to the next business day,
// falling back if that crosses a month boundary.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}
