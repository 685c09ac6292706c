package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/fipricer/calendar"
	"github.com/meenmo/fipricer/utils"
)

// LegKind selects how a cross-currency leg accrues.
type LegKind int

const (
	LegFixed LegKind = iota
	LegFloating
)

// XCCYLeg is one side of a cross-currency swap, discounted and projected on
// its own currency's curve. Rate is the fixed coupon for a fixed leg and the
// additive basis spread for a floating leg, both decimal.
type XCCYLeg struct {
	Currency   string
	Kind       LegKind
	Notional   float64
	Rate       float64
	FreqMonths int
	DayCount   string
	Calendar   calendar.CalendarID
}

func (l XCCYLeg) withDefaults() XCCYLeg {
	if l.FreqMonths == 0 {
		if l.Kind == LegFixed {
			l.FreqMonths = 12
		} else {
			l.FreqMonths = 6
		}
	}
	if l.DayCount == "" {
		if l.Kind == LegFixed {
			l.DayCount = utils.Thirty360
		} else {
			l.DayCount = utils.Act360
		}
	}
	if l.Calendar == "" {
		l.Calendar = calendar.WeekendsOnly
	}
	return l
}

// LegFlow is one cashflow of a leg in its own currency. Negative amounts are
// paid out of the leg (the initial notional exchange).
type LegFlow struct {
	Date   time.Time
	Amount float64
}

// CrossCurrencySwap exchanges interest streams in two currencies. The
// domestic leg is received and the foreign leg is paid; results are reported
// in domestic currency via the spot FX rate, quoted as foreign units per one
// domestic unit (USD per EUR for a EUR-domestic trade). Covers fixed-fixed,
// fixed-floating, and floating-floating variants through the leg kinds.
type CrossCurrencySwap struct {
	Domestic XCCYLeg
	Foreign  XCCYLeg

	Effective time.Time
	Maturity  time.Time

	SpotFX float64 // foreign per domestic

	// ExchangeNotional adds the initial and final principal exchanges to
	// both legs, the standard structure for funding trades.
	ExchangeNotional bool
}

func (x CrossCurrencySwap) withDefaults() CrossCurrencySwap {
	x.Domestic = x.Domestic.withDefaults()
	x.Foreign = x.Foreign.withDefaults()
	return x
}

// Validate rejects trades that cannot be valued.
func (x CrossCurrencySwap) Validate() error {
	if x.Domestic.Currency == x.Foreign.Currency {
		return fmt.Errorf("CrossCurrencySwap: both legs in %q: %w", x.Domestic.Currency, ErrInvalidInstrument)
	}
	if x.SpotFX <= 0 {
		return fmt.Errorf("CrossCurrencySwap: spot FX %g must be positive: %w", x.SpotFX, ErrInvalidInstrument)
	}
	if x.Domestic.Notional <= 0 || x.Foreign.Notional <= 0 {
		return fmt.Errorf("CrossCurrencySwap: notionals must be positive: %w", ErrInvalidInstrument)
	}
	if !x.Maturity.After(x.Effective) {
		return fmt.Errorf("CrossCurrencySwap: maturity %s not after effective %s: %w",
			x.Maturity.Format("2006-01-02"), x.Effective.Format("2006-01-02"), ErrInvalidInstrument)
	}
	return nil
}

// MarketSized returns the trade with the foreign notional set from the
// domestic notional at spot: Nf = Nd * spot, the at-market sizing for a
// notional-exchange swap.
func (x CrossCurrencySwap) MarketSized() CrossCurrencySwap {
	x.Foreign.Notional = x.Domestic.Notional * x.SpotFX
	return x
}

// legFlows expands a leg into its dated cashflows: optional -N at effective
// and +N at maturity, plus the coupon stream.
func legFlows(l XCCYLeg, crv DiscountCurve, effective, maturity time.Time, exchangeNotional bool) ([]LegFlow, error) {
	periods, err := GenerateSchedule(effective, maturity, l.FreqMonths, l.Calendar)
	if err != nil {
		return nil, err
	}

	var flows []LegFlow
	if exchangeNotional {
		flows = append(flows, LegFlow{Date: periods[0].Start, Amount: -l.Notional})
	}
	for _, p := range periods {
		tau := utils.YearFraction(p.Start, p.End, l.DayCount)
		var rate float64
		switch l.Kind {
		case LegFixed:
			rate = l.Rate
		case LegFloating:
			rate = forwardRate(crv, p.Start, p.End, l.DayCount) + l.Rate
		}
		flows = append(flows, LegFlow{Date: p.Pay, Amount: l.Notional * rate * tau})
	}
	if exchangeNotional {
		last := periods[len(periods)-1].Pay
		flows = append(flows, LegFlow{Date: last, Amount: l.Notional})
	}
	return flows, nil
}

// legPV discounts a leg's flows on its curve, rebased to the valuation date.
func legPV(flows []LegFlow, crv DiscountCurve, valuation time.Time) float64 {
	pv := 0.0
	for _, f := range flows {
		if f.Date.Before(valuation) {
			continue
		}
		pv += f.Amount * crv.DF(f.Date)
	}
	return pv / crv.DF(valuation)
}

// legAnnuity is sum tau * DF over a leg's schedule, rebased to valuation.
// The sensitivity of the leg's PV to its Rate is Notional * annuity.
func legAnnuity(l XCCYLeg, crv DiscountCurve, effective, maturity, valuation time.Time) (float64, error) {
	periods, err := GenerateSchedule(effective, maturity, l.FreqMonths, l.Calendar)
	if err != nil {
		return 0, err
	}
	annuity := 0.0
	for _, p := range periods {
		if p.Pay.Before(valuation) {
			continue
		}
		tau := utils.YearFraction(p.Start, p.End, l.DayCount)
		annuity += tau * crv.DF(p.Pay)
	}
	return annuity / crv.DF(valuation), nil
}

// XCCYResult reports both leg PVs in their own currencies and the net value
// in domestic terms. FairDomesticRate is the domestic-leg fixed rate (or
// basis spread) that zeroes the NPV with everything else held fixed.
type XCCYResult struct {
	NPVDomestic          float64
	DomesticLegPV        float64
	ForeignLegPV         float64
	ForeignLegPVDomestic float64
	FairDomesticRate     float64
}

// Value prices the swap: receive domestic, pay foreign, foreign converted
// at spot. Each leg lives entirely on its own curve.
func (x CrossCurrencySwap) Value(domesticCurve, foreignCurve DiscountCurve, valuation time.Time) (XCCYResult, error) {
	if domesticCurve == nil || foreignCurve == nil {
		return XCCYResult{}, ErrNilCurve
	}
	x = x.withDefaults()
	if err := x.Validate(); err != nil {
		return XCCYResult{}, err
	}

	domFlows, err := legFlows(x.Domestic, domesticCurve, x.Effective, x.Maturity, x.ExchangeNotional)
	if err != nil {
		return XCCYResult{}, fmt.Errorf("Value: domestic leg: %w", err)
	}
	forFlows, err := legFlows(x.Foreign, foreignCurve, x.Effective, x.Maturity, x.ExchangeNotional)
	if err != nil {
		return XCCYResult{}, fmt.Errorf("Value: foreign leg: %w", err)
	}

	domPV := legPV(domFlows, domesticCurve, valuation)
	forPV := legPV(forFlows, foreignCurve, valuation)
	forPVDom := forPV / x.SpotFX
	npv := domPV - forPVDom

	annuity, err := legAnnuity(x.Domestic, domesticCurve, x.Effective, x.Maturity, valuation)
	if err != nil {
		return XCCYResult{}, fmt.Errorf("Value: domestic leg: %w", err)
	}
	if annuity == 0 {
		return XCCYResult{}, fmt.Errorf("Value: domestic annuity is zero: %w", ErrInvalidInstrument)
	}

	// PV is linear in the domestic leg's rate, so the fair rate follows
	// directly from the residual over the annuity.
	fair := x.Domestic.Rate - npv/(x.Domestic.Notional*annuity)

	return XCCYResult{
		NPVDomestic:          npv,
		DomesticLegPV:        domPV,
		ForeignLegPV:         forPV,
		ForeignLegPVDomestic: forPVDom,
		FairDomesticRate:     fair,
	}, nil
}
