// Command curveprobe bootstraps a curve from the built-in sample quotes and
// prints a dense grid of discount factors, zero rates, and instantaneous
// forwards, for eyeballing the interpolation between pillars.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/meenmo/fipricer/curve"
	"github.com/meenmo/fipricer/marketdata"
	"github.com/meenmo/fipricer/utils"
)

func main() {
	currency := flag.String("currency", "EUR", "EUR or USD")
	settlementStr := flag.String("settlement", "2025-01-15", "settlement date (YYYY-MM-DD)")
	stepMonths := flag.Int("step", 3, "grid step in months")
	flag.Parse()

	settlement, err := utils.ParseDate(*settlementStr)
	if err != nil {
		log.Fatal(err)
	}

	quotes, ok := marketdata.Samples(*currency)
	if !ok {
		log.Fatalf("no sample quotes for %s", *currency)
	}
	var deposits, swaps []curve.Quote
	for _, q := range quotes {
		if q.Kind == curve.KindDeposit {
			deposits = append(deposits, q)
		} else {
			swaps = append(swaps, q)
		}
	}

	conv := curve.EURConventions()
	if *currency == "USD" {
		conv = curve.USDConventions()
	}
	crv, err := curve.Bootstrap(settlement, deposits, swaps, conv)
	if err != nil {
		log.Fatal(err)
	}

	pillars := crv.Pillars()
	last := pillars[len(pillars)-1].Date

	fmt.Printf("%-12s %-10s %-12s %-10s %s\n", "date", "time", "df", "zero", "fwd")
	for d := utils.AddMonth(settlement, *stepMonths); !d.After(last); d = utils.AddMonth(d, *stepMonths) {
		zero, err := crv.ZeroRateAt(d)
		if err != nil {
			log.Fatal(err)
		}
		fwd, err := crv.ForwardRateBetween(d, utils.AddMonth(d, *stepMonths))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%-12s %-10.6f %-12.8f %-10.6f %.6f\n",
			d.Format("2006-01-02"), crv.T(d), crv.DF(d), zero, fwd)
	}
}
