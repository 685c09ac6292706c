// Command fipricer bootstraps discount curves and prices bonds and swaps
// from the command line.
//
// Quotes come from the built-in sample sets, a YAML market file, or a
// Postgres quote store (see --dsn).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meenmo/fipricer/bond"
	"github.com/meenmo/fipricer/curve"
	"github.com/meenmo/fipricer/marketdata"
	"github.com/meenmo/fipricer/swap"
	"github.com/meenmo/fipricer/utils"
)

var (
	flagSettlement string
	flagCurrency   string
	flagMarketFile string
	flagDSN        string
	flagVerbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "fipricer",
		Short:         "Fixed income pricing: curves, bonds, swaps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagSettlement, "settlement", "2025-01-15", "settlement date (YYYY-MM-DD)")
	root.PersistentFlags().StringVar(&flagCurrency, "currency", "EUR", "curve currency (EUR or USD)")
	root.PersistentFlags().StringVar(&flagMarketFile, "market", "", "YAML market file overriding the built-in quotes")
	root.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Postgres DSN for the quote store")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "trace pillar solving")

	root.AddCommand(curveCmd(), bondCmd(), irsCmd(), xccyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fipricer:", err)
		os.Exit(1)
	}
}

func logger() zerolog.Logger {
	if !flagVerbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func settlementDate() (time.Time, error) {
	return utils.ParseDate(flagSettlement)
}

func conventions(currency string) curve.Conventions {
	if currency == "USD" {
		return curve.USDConventions()
	}
	return curve.EURConventions()
}

// loadQuotes resolves the quote source: Postgres store, market file, then
// built-in samples.
func loadQuotes(currency string, settlement time.Time) ([]curve.Quote, error) {
	if flagDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := marketdata.Open(ctx, flagDSN)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Quotes(ctx, currency, settlement)
	}
	if flagMarketFile != "" {
		return quotesFromFile(flagMarketFile, currency)
	}
	quotes, ok := marketdata.Samples(currency)
	if !ok {
		return nil, fmt.Errorf("no built-in quotes for %s", currency)
	}
	return quotes, nil
}

// quotesFromFile reads a YAML market file of the form:
//
//	EUR:
//	  - {tenor: 1M, rate: 0.0380, kind: deposit}
//	  - {tenor: 1Y, rate: 0.0320, kind: swap}
func quotesFromFile(path, currency string) ([]curve.Quote, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("market file: %w", err)
	}

	var raw []struct {
		Tenor string  `mapstructure:"tenor"`
		Rate  float64 `mapstructure:"rate"`
		Kind  string  `mapstructure:"kind"`
	}
	if err := v.UnmarshalKey(currency, &raw); err != nil {
		return nil, fmt.Errorf("market file: %s: %w", currency, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("market file: no quotes for %s", currency)
	}

	quotes := make([]curve.Quote, 0, len(raw))
	for _, r := range raw {
		kind := curve.KindSwap
		if r.Kind == "deposit" {
			kind = curve.KindDeposit
		}
		quotes = append(quotes, curve.Quote{Tenor: r.Tenor, Rate: r.Rate, Kind: kind})
	}
	return quotes, nil
}

func buildCurve(currency string, settlement time.Time) (*curve.DiscountCurve, error) {
	quotes, err := loadQuotes(currency, settlement)
	if err != nil {
		return nil, err
	}
	var deposits, swaps []curve.Quote
	for _, q := range quotes {
		if q.Kind == curve.KindDeposit {
			deposits = append(deposits, q)
		} else {
			swaps = append(swaps, q)
		}
	}
	return curve.NewBootstrapper(logger()).Bootstrap(settlement, deposits, swaps, conventions(currency))
}

func curveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Bootstrap a curve and print its pillars and zero rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			settlement, err := settlementDate()
			if err != nil {
				return err
			}
			crv, err := buildCurve(flagCurrency, settlement)
			if err != nil {
				return err
			}

			fmt.Printf("%s curve, settlement %s\n", flagCurrency, settlement.Format("2006-01-02"))
			fmt.Printf("%-12s %-10s %-12s %s\n", "maturity", "time", "df", "zero")
			for _, p := range crv.Pillars() {
				zero, err := crv.ZeroRateAt(p.Date)
				if err != nil {
					return err
				}
				fmt.Printf("%-12s %-10.6f %-12.8f %.4f%%\n",
					p.Date.Format("2006-01-02"), p.Time, p.DF, zero*100)
			}
			return nil
		},
	}
}

func bondCmd() *cobra.Command {
	var (
		coupon   float64
		freq     int
		maturity string
		issue    string
		dirty    float64
	)
	cmd := &cobra.Command{
		Use:   "bond",
		Short: "Bond analytics, asset-swap spread, and Z-spread on the curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			settlement, err := settlementDate()
			if err != nil {
				return err
			}
			crv, err := buildCurve(flagCurrency, settlement)
			if err != nil {
				return err
			}
			mat, err := utils.ParseDate(maturity)
			if err != nil {
				return err
			}
			iss, err := utils.ParseDate(issue)
			if err != nil {
				return err
			}

			b := bond.Bond{
				Face:           100,
				CouponRate:     coupon,
				CouponsPerYear: freq,
				DayCount:       utils.Thirty360,
				IssueDate:      iss,
				MaturityDate:   mat,
				Calendar:       conventions(flagCurrency).Calendar,
			}
			a, err := b.ComputeAnalytics(crv, settlement)
			if err != nil {
				return err
			}
			fmt.Printf("dirty      %.6f\n", a.Dirty)
			fmt.Printf("clean      %.6f\n", a.Clean)
			fmt.Printf("accrued    %.6f\n", a.Accrued)
			fmt.Printf("ytm        %.4f%%\n", a.YTM*100)
			fmt.Printf("mod dur    %.6f\n", a.ModifiedDuration)
			fmt.Printf("mac dur    %.6f\n", a.MacaulayDuration)
			fmt.Printf("convexity  %.6f\n", a.Convexity)
			fmt.Printf("bpv        %.6f\n", a.BPV)

			if dirty > 0 {
				asw, err := bond.ComputeASWSpread(bond.ASWInput{
					Bond:             b,
					DirtyMarketPrice: dirty,
					SwapCurve:        crv,
					Settlement:       settlement,
				})
				if err != nil {
					return err
				}
				z, err := bond.ZSpread(b, dirty, crv, settlement)
				if err != nil {
					return err
				}
				fmt.Printf("asw spread %.4f bp (upfront %.4f)\n", asw.SpreadBP, asw.Upfront)
				fmt.Printf("z-spread   %.4f bp\n", z*1e4)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&coupon, "coupon", 0.0325, "annual coupon rate, decimal")
	cmd.Flags().IntVar(&freq, "freq", 1, "coupons per year")
	cmd.Flags().StringVar(&maturity, "maturity", "2032-01-15", "maturity date")
	cmd.Flags().StringVar(&issue, "issue", "2022-01-15", "issue date")
	cmd.Flags().Float64Var(&dirty, "dirty", 0, "dirty market price for spread calculations")
	return cmd
}

func irsCmd() *cobra.Command {
	var (
		notional float64
		fixed    float64
		spread   float64
		years    int
	)
	cmd := &cobra.Command{
		Use:   "irs",
		Short: "Value a payer interest-rate swap on the curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			settlement, err := settlementDate()
			if err != nil {
				return err
			}
			crv, err := buildCurve(flagCurrency, settlement)
			if err != nil {
				return err
			}
			conv := conventions(flagCurrency)

			s := swap.IRS{
				Notional:        notional,
				FixedRate:       fixed,
				FloatSpread:     spread,
				Effective:       settlement,
				Maturity:        utils.AddMonth(settlement, 12*years),
				FixedFreqMonths: conv.FixedFreqMonths,
				Calendar:        conv.Calendar,
			}
			r, err := s.Value(crv, settlement)
			if err != nil {
				return err
			}
			fmt.Printf("npv (payer)  %.2f\n", r.NPV)
			fmt.Printf("fair rate    %.4f%%\n", r.FairRate*100)
			fmt.Printf("fixed leg    %.2f (bps %.2f)\n", r.FixedLegPV, r.FixedLegBPS)
			fmt.Printf("float leg    %.2f (bps %.2f)\n", r.FloatLegPV, r.FloatLegBPS)
			return nil
		},
	}
	cmd.Flags().Float64Var(&notional, "notional", 10_000_000, "notional")
	cmd.Flags().Float64Var(&fixed, "fixed", 0.03, "fixed rate, decimal")
	cmd.Flags().Float64Var(&spread, "spread", 0, "floating leg spread, decimal")
	cmd.Flags().IntVar(&years, "years", 5, "tenor in years")
	return cmd
}

func xccyCmd() *cobra.Command {
	var (
		notional float64
		domRate  float64
		forRate  float64
		spot     float64
		years    int
		domKind  string
		forKind  string
	)
	cmd := &cobra.Command{
		Use:   "xccy",
		Short: "Value a EUR/USD cross-currency swap (receive EUR, pay USD)",
		RunE: func(cmd *cobra.Command, args []string) error {
			settlement, err := settlementDate()
			if err != nil {
				return err
			}
			eur, err := buildCurve("EUR", settlement)
			if err != nil {
				return err
			}
			usd, err := buildCurve("USD", settlement)
			if err != nil {
				return err
			}

			x := swap.CrossCurrencySwap{
				Domestic: swap.XCCYLeg{
					Currency: "EUR",
					Kind:     parseLegKind(domKind),
					Notional: notional,
					Rate:     domRate,
				},
				Foreign: swap.XCCYLeg{
					Currency: "USD",
					Kind:     parseLegKind(forKind),
					Rate:     forRate,
				},
				Effective:        settlement,
				Maturity:         utils.AddMonth(settlement, 12*years),
				SpotFX:           spot,
				ExchangeNotional: true,
			}.MarketSized()

			r, err := x.Value(eur, usd, settlement)
			if err != nil {
				return err
			}
			fmt.Printf("npv (EUR)         %.2f\n", r.NPVDomestic)
			fmt.Printf("eur leg pv        %.2f\n", r.DomesticLegPV)
			fmt.Printf("usd leg pv        %.2f (EUR %.2f)\n", r.ForeignLegPV, r.ForeignLegPVDomestic)
			fmt.Printf("fair eur rate     %.4f%%\n", r.FairDomesticRate*100)
			return nil
		},
	}
	cmd.Flags().Float64Var(&notional, "notional", 10_000_000, "EUR notional")
	cmd.Flags().Float64Var(&domRate, "dom-rate", 0.03, "EUR leg rate or spread, decimal")
	cmd.Flags().Float64Var(&forRate, "for-rate", 0.04, "USD leg rate or spread, decimal")
	cmd.Flags().Float64Var(&spot, "spot", 1.10, "spot FX, USD per EUR")
	cmd.Flags().IntVar(&years, "years", 5, "tenor in years")
	cmd.Flags().StringVar(&domKind, "dom-kind", "fixed", "EUR leg kind: fixed or float")
	cmd.Flags().StringVar(&forKind, "for-kind", "fixed", "USD leg kind: fixed or float")
	return cmd
}

func parseLegKind(s string) swap.LegKind {
	if s == "float" || s == "floating" {
		return swap.LegFloating
	}
	return swap.LegFixed
}
