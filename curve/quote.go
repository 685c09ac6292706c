package curve

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/fipricer/calendar"
	"github.com/meenmo/fipricer/utils"
)

// Kind distinguishes the two bootstrap instrument types.
type Kind string

const (
	KindDeposit Kind = "DEPOSIT"
	KindSwap    Kind = "SWAP"
)

// Quote is an immutable market input: a deposit or par swap rate at a tenor.
// Rate is a decimal (0.035 == 3.5%).
type Quote struct {
	Tenor string
	Rate  float64
	Kind  Kind
}

// Conventions fixes the day counts and schedule settings used during
// bootstrap. Zero values take the EUR defaults.
type Conventions struct {
	Calendar        calendar.CalendarID
	CurveDayCount   string // time axis for interpolation and zero rates
	DepositDayCount string // short-end simple accrual
	FixedDayCount   string // swap fixed leg accrual
	FixedFreqMonths int    // swap fixed leg payment frequency
}

func (c Conventions) withDefaults() Conventions {
	if c.Calendar == "" {
		c.Calendar = calendar.TARGET
	}
	if c.CurveDayCount == "" {
		// ACT/365F time axis regardless of currency, the standard
		// discount-curve convention.
		c.CurveDayCount = utils.Act365F
	}
	if c.DepositDayCount == "" {
		c.DepositDayCount = utils.Act360
	}
	if c.FixedDayCount == "" {
		c.FixedDayCount = utils.Thirty360
	}
	if c.FixedFreqMonths == 0 {
		c.FixedFreqMonths = 12
	}
	return c
}

// EURConventions: annual 30/360 fixed leg vs 6M floating, TARGET calendar.
func EURConventions() Conventions {
	return Conventions{
		Calendar:        calendar.TARGET,
		CurveDayCount:   utils.Act365F,
		DepositDayCount: utils.Act360,
		FixedDayCount:   utils.Thirty360,
		FixedFreqMonths: 12,
	}
}

// USDConventions: semi-annual 30/360 fixed leg vs 3M floating, US calendar.
func USDConventions() Conventions {
	return Conventions{
		Calendar:        calendar.US,
		CurveDayCount:   utils.Act365F,
		DepositDayCount: utils.Act360,
		FixedDayCount:   utils.Thirty360,
		FixedFreqMonths: 6,
	}
}

// Maturity resolves the quote's tenor into an adjusted maturity date.
func (q Quote) Maturity(settlement time.Time, cal calendar.CalendarID) (time.Time, error) {
	months, days, err := parseTenor(q.Tenor)
	if err != nil {
		return time.Time{}, err
	}
	unadj := utils.AddMonth(settlement, months).AddDate(0, 0, days)
	return calendar.Adjust(cal, unadj), nil
}

// parseTenor converts "1W", "3M", "10Y" style tenors into month and day offsets.
func parseTenor(tenor string) (months, days int, err error) {
	s := strings.TrimSpace(strings.ToUpper(tenor))
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("parseTenor: invalid tenor %q", tenor)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("parseTenor: invalid tenor %q: %w", tenor, err)
	}
	switch s[len(s)-1] {
	case 'D':
		return 0, n, nil
	case 'W':
		return 0, 7 * n, nil
	case 'M':
		return n, 0, nil
	case 'Y':
		return 12 * n, 0, nil
	default:
		return 0, 0, fmt.Errorf("parseTenor: invalid tenor %q", tenor)
	}
}
