package curve

import (
	"errors"
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDiscountCurveRejectsInversion(t *testing.T) {
	t.Parallel()

	pillars := []Pillar{
		{Date: date(2026, 1, 15), Time: 1.0, DF: 0.97},
		{Date: date(2027, 1, 15), Time: 2.0, DF: 0.98}, // increasing DF
	}
	_, err := newDiscountCurve(date(2025, 1, 15), "ACT/365F", pillars)
	if err == nil {
		t.Fatal("expected error for increasing discount factors")
	}
	if !errors.Is(err, ErrCurveInversion) {
		t.Fatalf("expected ErrCurveInversion, got %v", err)
	}
}

func TestNewDiscountCurveRejectsNonPositiveDF(t *testing.T) {
	t.Parallel()

	pillars := []Pillar{{Date: date(2026, 1, 15), Time: 1.0, DF: -0.5}}
	_, err := newDiscountCurve(date(2025, 1, 15), "ACT/365F", pillars)
	if !errors.Is(err, ErrCurveInversion) {
		t.Fatalf("expected ErrCurveInversion, got %v", err)
	}
}

func TestFitLogDFRejectsUnorderedTimes(t *testing.T) {
	t.Parallel()

	if _, err := fitLogDF([]float64{2, 1}, []float64{0.95, 0.97}); err == nil {
		t.Fatal("expected error for unordered knot times")
	}
}

func TestDiscountAtAndBeforeSettlement(t *testing.T) {
	t.Parallel()

	crv, err := newDiscountCurve(date(2025, 1, 15), "ACT/365F", []Pillar{
		{Date: date(2026, 1, 15), Time: 1.0, DF: 0.97},
		{Date: date(2030, 1, 15), Time: 5.0, DF: 0.86},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := crv.Discount(0); got != 1.0 {
		t.Fatalf("DF(0): expected 1, got %v", got)
	}
	if got := crv.Discount(-0.5); got != 1.0 {
		t.Fatalf("DF(-0.5): expected 1, got %v", got)
	}
	if got := crv.DF(date(2025, 1, 15)); got != 1.0 {
		t.Fatalf("DF(settlement): expected 1, got %v", got)
	}
}

func TestCurveInterpolatesPillarsExactly(t *testing.T) {
	t.Parallel()

	pillars := []Pillar{
		{Date: date(2026, 1, 15), Time: 1.0, DF: 0.97},
		{Date: date(2027, 1, 15), Time: 2.0, DF: 0.94},
		{Date: date(2030, 1, 15), Time: 5.0, DF: 0.86},
	}
	crv, err := newDiscountCurve(date(2025, 1, 15), "ACT/365F", pillars)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pillars {
		if got := crv.Discount(p.Time); math.Abs(got-p.DF) > 1e-14 {
			t.Fatalf("DF(%v): expected %v, got %v", p.Time, p.DF, got)
		}
	}
}

func TestFlatForwardExtrapolation(t *testing.T) {
	t.Parallel()

	crv, err := newDiscountCurve(date(2025, 1, 15), "ACT/365F", []Pillar{
		{Date: date(2026, 1, 15), Time: 1.0, DF: 0.97},
		{Date: date(2030, 1, 15), Time: 5.0, DF: 0.86},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Past the last pillar the instantaneous forward is constant: the
	// forward over any two extrapolated intervals must match.
	f1, err := crv.ForwardRate(6, 7)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := crv.ForwardRate(8, 10)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f1-f2) > 1e-12 {
		t.Fatalf("extrapolated forwards differ: %v vs %v", f1, f2)
	}
}

func TestZeroRateDomain(t *testing.T) {
	t.Parallel()

	crv, err := newDiscountCurve(date(2025, 1, 15), "ACT/365F", []Pillar{
		{Date: date(2026, 1, 15), Time: 1.0, DF: 0.97},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := crv.ZeroRate(0); !errors.Is(err, ErrDomain) {
		t.Fatalf("ZeroRate(0): expected ErrDomain, got %v", err)
	}
	if _, err := crv.ZeroRate(-1); !errors.Is(err, ErrDomain) {
		t.Fatalf("ZeroRate(-1): expected ErrDomain, got %v", err)
	}
	if _, err := crv.ForwardRate(2, 1); !errors.Is(err, ErrDomain) {
		t.Fatalf("ForwardRate(2,1): expected ErrDomain, got %v", err)
	}

	zero, err := crv.ZeroRate(1)
	if err != nil {
		t.Fatal(err)
	}
	want := -math.Log(0.97)
	if math.Abs(zero-want) > 1e-12 {
		t.Fatalf("ZeroRate(1): expected %v, got %v", want, zero)
	}
}

func TestPillarsReturnsCopy(t *testing.T) {
	t.Parallel()

	crv, err := newDiscountCurve(date(2025, 1, 15), "ACT/365F", []Pillar{
		{Date: date(2026, 1, 15), Time: 1.0, DF: 0.97},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := crv.Pillars()
	got[0].DF = 0.5
	if crv.Pillars()[0].DF != 0.97 {
		t.Fatal("Pillars must return a defensive copy")
	}
}

func TestParseTenor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tenor  string
		months int
		days   int
	}{
		{"1D", 0, 1},
		{"2W", 0, 14},
		{"3M", 3, 0},
		{"10Y", 120, 0},
		{"6m", 6, 0},
	}
	for _, c := range cases {
		months, days, err := parseTenor(c.tenor)
		if err != nil {
			t.Fatalf("parseTenor(%q): %v", c.tenor, err)
		}
		if months != c.months || days != c.days {
			t.Fatalf("parseTenor(%q): expected (%d, %d), got (%d, %d)",
				c.tenor, c.months, c.days, months, days)
		}
	}

	for _, bad := range []string{"", "M", "XY", "1Q"} {
		if _, _, err := parseTenor(bad); err == nil {
			t.Fatalf("parseTenor(%q): expected error", bad)
		}
	}
}
