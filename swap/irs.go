package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/fipricer/calendar"
	"github.com/meenmo/fipricer/utils"
)

// IRS is a plain-vanilla fixed-vs-floating swap in a single currency,
// valued from the payer's perspective (pay fixed, receive floating).
type IRS struct {
	Notional    float64
	FixedRate   float64 // decimal
	FloatSpread float64 // decimal, additive on the floating leg

	Effective time.Time
	Maturity  time.Time

	FixedFreqMonths int    // default 12
	FixedDayCount   string // default 30/360
	FloatFreqMonths int    // default 6
	FloatDayCount   string // default ACT/360
	Calendar        calendar.CalendarID
}

func (s IRS) withDefaults() IRS {
	if s.FixedFreqMonths == 0 {
		s.FixedFreqMonths = 12
	}
	if s.FixedDayCount == "" {
		s.FixedDayCount = utils.Thirty360
	}
	if s.FloatFreqMonths == 0 {
		s.FloatFreqMonths = 6
	}
	if s.FloatDayCount == "" {
		s.FloatDayCount = utils.Act360
	}
	if s.Calendar == "" {
		s.Calendar = calendar.TARGET
	}
	return s
}

// Validate rejects malformed trades before valuation.
func (s IRS) Validate() error {
	if s.Notional <= 0 {
		return fmt.Errorf("IRS: notional %g must be positive: %w", s.Notional, ErrInvalidInstrument)
	}
	if !s.Maturity.After(s.Effective) {
		return fmt.Errorf("IRS: maturity %s not after effective %s: %w",
			s.Maturity.Format("2006-01-02"), s.Effective.Format("2006-01-02"), ErrInvalidInstrument)
	}
	return nil
}

// IRSResult holds the valuation outputs. NPV is from the payer's side;
// leg BPS is the PV of one basis point on that leg's annuity.
type IRSResult struct {
	NPV         float64
	FairRate    float64
	FixedLegPV  float64
	FloatLegPV  float64
	FixedLegBPS float64
	FloatLegBPS float64
}

// fixedAnnuity is sum tau_i * DF(pay_i) over the fixed schedule, rebased
// to the valuation date.
func (s IRS) fixedAnnuity(crv DiscountCurve, valuation time.Time) (float64, error) {
	periods, err := GenerateSchedule(s.Effective, s.Maturity, s.FixedFreqMonths, s.Calendar)
	if err != nil {
		return 0, err
	}
	annuity := 0.0
	for _, p := range periods {
		if p.Pay.Before(valuation) {
			continue
		}
		tau := utils.YearFraction(p.Start, p.End, s.FixedDayCount)
		annuity += tau * crv.DF(p.Pay)
	}
	return annuity / crv.DF(valuation), nil
}

// floatAnnuity mirrors fixedAnnuity over the floating schedule.
func (s IRS) floatAnnuity(crv DiscountCurve, valuation time.Time) (float64, error) {
	periods, err := GenerateSchedule(s.Effective, s.Maturity, s.FloatFreqMonths, s.Calendar)
	if err != nil {
		return 0, err
	}
	annuity := 0.0
	for _, p := range periods {
		if p.Pay.Before(valuation) {
			continue
		}
		tau := utils.YearFraction(p.Start, p.End, s.FloatDayCount)
		annuity += tau * crv.DF(p.Pay)
	}
	return annuity / crv.DF(valuation), nil
}

// FloatLegPV projects each period's forward rate off the curve, adds the
// spread, and discounts.
func (s IRS) FloatLegPV(crv DiscountCurve, valuation time.Time) (float64, error) {
	if crv == nil {
		return 0, ErrNilCurve
	}
	s = s.withDefaults()
	periods, err := GenerateSchedule(s.Effective, s.Maturity, s.FloatFreqMonths, s.Calendar)
	if err != nil {
		return 0, err
	}
	pv := 0.0
	for _, p := range periods {
		if p.Pay.Before(valuation) {
			continue
		}
		tau := utils.YearFraction(p.Start, p.End, s.FloatDayCount)
		fwd := forwardRate(crv, p.Start, p.End, s.FloatDayCount)
		pv += s.Notional * (fwd + s.FloatSpread) * tau * crv.DF(p.Pay)
	}
	return pv / crv.DF(valuation), nil
}

// TelescopedFloatLegPV is the flat-index shortcut N * (DF(t0) - DF(T)).
// It must match FloatLegPV exactly when the spread is zero; the identity
// holds because consecutive accrual periods share their boundary discount
// factors.
func (s IRS) TelescopedFloatLegPV(crv DiscountCurve, valuation time.Time) (float64, error) {
	if crv == nil {
		return 0, ErrNilCurve
	}
	s = s.withDefaults()
	periods, err := GenerateSchedule(s.Effective, s.Maturity, s.FloatFreqMonths, s.Calendar)
	if err != nil {
		return 0, err
	}
	first := periods[0].Start
	last := periods[len(periods)-1].Pay
	return s.Notional * (crv.DF(first) - crv.DF(last)) / crv.DF(valuation), nil
}

// Value prices the swap: fixed leg in annuity form, floating leg by forward
// projection, fair rate as the floating PV over the fixed annuity.
func (s IRS) Value(crv DiscountCurve, valuation time.Time) (IRSResult, error) {
	if crv == nil {
		return IRSResult{}, ErrNilCurve
	}
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return IRSResult{}, err
	}

	fixedAnnuity, err := s.fixedAnnuity(crv, valuation)
	if err != nil {
		return IRSResult{}, fmt.Errorf("Value: fixed leg: %w", err)
	}
	floatAnnuity, err := s.floatAnnuity(crv, valuation)
	if err != nil {
		return IRSResult{}, fmt.Errorf("Value: floating leg: %w", err)
	}
	floatPV, err := s.FloatLegPV(crv, valuation)
	if err != nil {
		return IRSResult{}, fmt.Errorf("Value: floating leg: %w", err)
	}

	fixedPV := s.Notional * s.FixedRate * fixedAnnuity
	if fixedAnnuity == 0 {
		return IRSResult{}, fmt.Errorf("Value: fixed annuity is zero: %w", ErrInvalidInstrument)
	}

	return IRSResult{
		NPV:         floatPV - fixedPV,
		FairRate:    floatPV / (s.Notional * fixedAnnuity),
		FixedLegPV:  fixedPV,
		FloatLegPV:  floatPV,
		FixedLegBPS: s.Notional * 1e-4 * fixedAnnuity,
		FloatLegBPS: s.Notional * 1e-4 * floatAnnuity,
	}, nil
}
