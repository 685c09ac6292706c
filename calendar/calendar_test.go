package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	t.Parallel()

	if IsBusinessDay(TARGET, date(2025, 1, 18)) { // Saturday
		t.Fatal("Saturday should not be a business day")
	}
	if IsBusinessDay(TARGET, date(2025, 1, 1)) { // New Year
		t.Fatal("TARGET New Year should be a holiday")
	}
	if IsBusinessDay(US, date(2025, 7, 4)) {
		t.Fatal("US Independence Day should be a holiday")
	}
	if !IsBusinessDay(TARGET, date(2025, 7, 4)) {
		t.Fatal("July 4 is a TARGET business day")
	}
	if !IsBusinessDay(WeekendsOnly, date(2025, 1, 1)) {
		t.Fatal("WeekendsOnly has no holidays")
	}
}

func TestAdjustModifiedFollowing(t *testing.T) {
	t.Parallel()

	// Saturday rolls to Monday.
	if got := Adjust(TARGET, date(2025, 1, 18)); !got.Equal(date(2025, 1, 20)) {
		t.Fatalf("expected 2025-01-20, got %s", got.Format("2006-01-02"))
	}
	// Business day is untouched.
	if got := Adjust(TARGET, date(2025, 1, 15)); !got.Equal(date(2025, 1, 15)) {
		t.Fatalf("expected 2025-01-15, got %s", got.Format("2006-01-02"))
	}
	// Month-end Saturday rolls backward, not into the next month.
	// 2025-05-31 is a Saturday; following would be Monday June 2.
	if got := Adjust(TARGET, date(2025, 5, 31)); !got.Equal(date(2025, 5, 30)) {
		t.Fatalf("expected 2025-05-30, got %s", got.Format("2006-01-02"))
	}
}

func TestAdjustFollowing(t *testing.T) {
	t.Parallel()

	// Following crosses the month boundary where ModFollowing would not.
	if got := AdjustFollowing(TARGET, date(2025, 5, 31)); !got.Equal(date(2025, 6, 2)) {
		t.Fatalf("expected 2025-06-02, got %s", got.Format("2006-01-02"))
	}
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	// Thursday + 2 business days skips the weekend.
	if got := AddBusinessDays(TARGET, date(2025, 1, 16), 2); !got.Equal(date(2025, 1, 20)) {
		t.Fatalf("expected 2025-01-20, got %s", got.Format("2006-01-02"))
	}
	// Monday - 1 business day lands on Friday.
	if got := AddBusinessDays(TARGET, date(2025, 1, 20), -1); !got.Equal(date(2025, 1, 17)) {
		t.Fatalf("expected 2025-01-17, got %s", got.Format("2006-01-02"))
	}
}
