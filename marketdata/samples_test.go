package marketdata

import (
	"testing"
	"time"

	"github.com/meenmo/fipricer/curve"
)

func TestSamplesKnownCurrencies(t *testing.T) {
	t.Parallel()

	for _, ccy := range []string{"EUR", "USD"} {
		quotes, ok := Samples(ccy)
		if !ok {
			t.Fatalf("%s: expected sample quotes", ccy)
		}
		if len(quotes) != 12 {
			t.Fatalf("%s: expected 12 quotes, got %d", ccy, len(quotes))
		}
		deposits := 0
		for _, q := range quotes {
			if q.Rate <= 0 || q.Rate >= 1 {
				t.Fatalf("%s %s: implausible rate %v", ccy, q.Tenor, q.Rate)
			}
			if q.Kind == curve.KindDeposit {
				deposits++
			}
		}
		if deposits != 3 {
			t.Fatalf("%s: expected 3 deposits, got %d", ccy, deposits)
		}
	}

	if _, ok := Samples("JPY"); ok {
		t.Fatal("JPY: expected no sample quotes")
	}
}

func TestSampleQuotesBootstrap(t *testing.T) {
	t.Parallel()

	settlement := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	for _, c := range []struct {
		ccy  string
		conv curve.Conventions
	}{
		{"EUR", curve.EURConventions()},
		{"USD", curve.USDConventions()},
	} {
		quotes, _ := Samples(c.ccy)
		var deposits, swaps []curve.Quote
		for _, q := range quotes {
			if q.Kind == curve.KindDeposit {
				deposits = append(deposits, q)
			} else {
				swaps = append(swaps, q)
			}
		}
		crv, err := curve.Bootstrap(settlement, deposits, swaps, c.conv)
		if err != nil {
			t.Fatalf("%s: %v", c.ccy, err)
		}
		if got := len(crv.Pillars()); got != len(quotes) {
			t.Fatalf("%s: expected %d pillars, got %d", c.ccy, len(quotes), got)
		}
	}
}
