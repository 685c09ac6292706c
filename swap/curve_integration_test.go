package swap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fipricer/curve"
	"github.com/meenmo/fipricer/utils"
)

// A par swap struck at its own bootstrap quote must come back fair on the
// bootstrapped curve.
func TestIRSFairRateMatchesBootstrapQuote(t *testing.T) {
	t.Parallel()

	settlement := date(2025, 1, 15)
	deposits := []curve.Quote{
		{Tenor: "1M", Rate: 0.0380, Kind: curve.KindDeposit},
		{Tenor: "3M", Rate: 0.0375, Kind: curve.KindDeposit},
		{Tenor: "6M", Rate: 0.0365, Kind: curve.KindDeposit},
	}
	swaps := []curve.Quote{
		{Tenor: "1Y", Rate: 0.0320, Kind: curve.KindSwap},
		{Tenor: "2Y", Rate: 0.0300, Kind: curve.KindSwap},
		{Tenor: "3Y", Rate: 0.0290, Kind: curve.KindSwap},
		{Tenor: "5Y", Rate: 0.0285, Kind: curve.KindSwap},
		{Tenor: "10Y", Rate: 0.0300, Kind: curve.KindSwap},
	}
	conv := curve.EURConventions()
	crv, err := curve.Bootstrap(settlement, deposits, swaps, conv)
	require.NoError(t, err)

	for _, q := range []struct {
		years int
		rate  float64
	}{
		{1, 0.0320}, {2, 0.0300}, {5, 0.0285}, {10, 0.0300},
	} {
		s := IRS{
			Notional:        10_000_000,
			FixedRate:       q.rate,
			Effective:       settlement,
			Maturity:        utils.AddMonth(settlement, 12*q.years),
			FixedFreqMonths: conv.FixedFreqMonths,
			FixedDayCount:   conv.FixedDayCount,
			Calendar:        conv.Calendar,
		}
		r, err := s.Value(crv, settlement)
		require.NoError(t, err)

		assert.InEpsilon(t, q.rate, r.FairRate, 1e-7, "tenor %dY", q.years)
		assert.Less(t, math.Abs(r.NPV), 1.0, "tenor %dY NPV %v", q.years, r.NPV)
	}
}
