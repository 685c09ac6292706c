package swap

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fipricer/calendar"
	"github.com/meenmo/fipricer/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// flatCurve discounts continuously at a single rate on ACT/365F.
type flatCurve struct {
	rate       float64
	settlement time.Time
}

func (c flatCurve) DF(d time.Time) float64 {
	t := utils.YearFraction(c.settlement, d, utils.Act365F)
	if t <= 0 {
		return 1.0
	}
	return math.Exp(-c.rate * t)
}

func (c flatCurve) Settlement() time.Time { return c.settlement }

func testIRS() IRS {
	return IRS{
		Notional:  10_000_000,
		FixedRate: 0.03,
		Effective: date(2025, 1, 15),
		Maturity:  date(2030, 1, 15),
		Calendar:  calendar.TARGET,
	}
}

func TestGenerateSchedule(t *testing.T) {
	t.Parallel()

	periods, err := GenerateSchedule(date(2025, 1, 15), date(2030, 1, 15), 12, calendar.TARGET)
	require.NoError(t, err)
	require.Len(t, periods, 5)

	// Periods are contiguous: each start is the previous adjusted end.
	for i := 1; i < len(periods); i++ {
		assert.Equal(t, periods[i-1].End, periods[i].Start)
	}
	for _, p := range periods {
		assert.Equal(t, p.End, p.Pay)
		assert.True(t, p.End.After(p.Start))
	}
}

func TestGenerateScheduleFrontStub(t *testing.T) {
	t.Parallel()

	// Five years semiannual on-cycle: ten periods, no stub.
	periods, err := GenerateSchedule(date(2025, 1, 15), date(2030, 1, 15), 6, calendar.TARGET)
	require.NoError(t, err)
	assert.Len(t, periods, 10)

	// Off-cycle effective date produces a short first period.
	periods, err = GenerateSchedule(date(2025, 3, 3), date(2030, 1, 15), 12, calendar.TARGET)
	require.NoError(t, err)
	require.Len(t, periods, 5)
	first := utils.Days(periods[0].Start, periods[0].End)
	second := utils.Days(periods[1].Start, periods[1].End)
	assert.Less(t, first, second)
}

func TestGenerateScheduleRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := GenerateSchedule(date(2030, 1, 15), date(2025, 1, 15), 12, calendar.TARGET)
	assert.True(t, errors.Is(err, ErrInvalidInstrument))

	_, err = GenerateSchedule(date(2025, 1, 15), date(2030, 1, 15), 0, calendar.TARGET)
	assert.True(t, errors.Is(err, ErrInvalidInstrument))
}

func TestFloatLegTelescopes(t *testing.T) {
	t.Parallel()

	s := testIRS()
	crv := flatCurve{rate: 0.03, settlement: s.Effective}

	projected, err := s.FloatLegPV(crv, s.Effective)
	require.NoError(t, err)
	telescoped, err := s.TelescopedFloatLegPV(crv, s.Effective)
	require.NoError(t, err)

	// Forward-by-forward projection must collapse to N*(DF(t0)-DF(T)).
	assert.InEpsilon(t, telescoped, projected, 1e-10)
}

func TestIRSValue(t *testing.T) {
	t.Parallel()

	s := testIRS()
	crv := flatCurve{rate: 0.03, settlement: s.Effective}

	r, err := s.Value(crv, s.Effective)
	require.NoError(t, err)

	assert.Greater(t, r.FixedLegPV, 0.0)
	assert.Greater(t, r.FloatLegPV, 0.0)
	assert.InDelta(t, r.FloatLegPV-r.FixedLegPV, r.NPV, 1e-9)
	assert.Greater(t, r.FixedLegBPS, 0.0)
	assert.Greater(t, r.FloatLegBPS, 0.0)
}

func TestIRSFairRateZeroesNPV(t *testing.T) {
	t.Parallel()

	s := testIRS()
	crv := flatCurve{rate: 0.03, settlement: s.Effective}

	r, err := s.Value(crv, s.Effective)
	require.NoError(t, err)

	s.FixedRate = r.FairRate
	atFair, err := s.Value(crv, s.Effective)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, atFair.NPV, 1e-6*s.Notional/1e6)
}

func TestIRSFixedRateSensitivity(t *testing.T) {
	t.Parallel()

	s := testIRS()
	crv := flatCurve{rate: 0.03, settlement: s.Effective}

	base, err := s.Value(crv, s.Effective)
	require.NoError(t, err)

	bumped := s
	bumped.FixedRate += 0.0001
	up, err := bumped.Value(crv, s.Effective)
	require.NoError(t, err)

	// Paying one basis point more of fixed costs exactly the fixed leg BPS.
	assert.InDelta(t, base.NPV-base.FixedLegBPS, up.NPV, 1e-6)
}

func TestIRSFloatSpreadSensitivity(t *testing.T) {
	t.Parallel()

	s := testIRS()
	crv := flatCurve{rate: 0.03, settlement: s.Effective}

	base, err := s.Value(crv, s.Effective)
	require.NoError(t, err)

	bumped := s
	bumped.FloatSpread = 0.0001
	up, err := bumped.Value(crv, s.Effective)
	require.NoError(t, err)

	assert.InDelta(t, base.NPV+base.FloatLegBPS, up.NPV, 1e-6)
}

func TestIRSMidLifeValuation(t *testing.T) {
	t.Parallel()

	s := testIRS()
	crv := flatCurve{rate: 0.03, settlement: date(2027, 6, 15)}

	// Two years in, only remaining periods contribute.
	r, err := s.Value(crv, date(2027, 6, 15))
	require.NoError(t, err)
	assert.Greater(t, r.FixedLegPV, 0.0)

	full, err := s.Value(flatCurve{rate: 0.03, settlement: s.Effective}, s.Effective)
	require.NoError(t, err)
	assert.Less(t, r.FixedLegBPS, full.FixedLegBPS)
}

func TestIRSValidate(t *testing.T) {
	t.Parallel()

	crv := flatCurve{rate: 0.03, settlement: date(2025, 1, 15)}

	s := testIRS()
	s.Notional = 0
	_, err := s.Value(crv, s.Effective)
	assert.True(t, errors.Is(err, ErrInvalidInstrument))

	s = testIRS()
	s.Maturity = s.Effective
	_, err = s.Value(crv, s.Effective)
	assert.True(t, errors.Is(err, ErrInvalidInstrument))

	s = testIRS()
	_, err = s.Value(nil, s.Effective)
	assert.True(t, errors.Is(err, ErrNilCurve))
}
