// Package marketdata supplies curve quotes, either from built-in sample
// sets or from a Postgres quote store.
package marketdata

import "github.com/meenmo/fipricer/curve"

// SampleEURQuotes is a representative EUR swap-curve snapshot: three
// deposits on the short end and annual-fixed par swap rates out to 30Y.
func SampleEURQuotes() []curve.Quote {
	return []curve.Quote{
		{Tenor: "1M", Rate: 0.0380, Kind: curve.KindDeposit},
		{Tenor: "3M", Rate: 0.0375, Kind: curve.KindDeposit},
		{Tenor: "6M", Rate: 0.0365, Kind: curve.KindDeposit},
		{Tenor: "1Y", Rate: 0.0320, Kind: curve.KindSwap},
		{Tenor: "2Y", Rate: 0.0300, Kind: curve.KindSwap},
		{Tenor: "3Y", Rate: 0.0290, Kind: curve.KindSwap},
		{Tenor: "5Y", Rate: 0.0285, Kind: curve.KindSwap},
		{Tenor: "7Y", Rate: 0.0290, Kind: curve.KindSwap},
		{Tenor: "10Y", Rate: 0.0300, Kind: curve.KindSwap},
		{Tenor: "15Y", Rate: 0.0310, Kind: curve.KindSwap},
		{Tenor: "20Y", Rate: 0.0315, Kind: curve.KindSwap},
		{Tenor: "30Y", Rate: 0.0310, Kind: curve.KindSwap},
	}
}

// SampleUSDQuotes mirrors SampleEURQuotes for a USD curve with semiannual
// fixed swaps.
func SampleUSDQuotes() []curve.Quote {
	return []curve.Quote{
		{Tenor: "1M", Rate: 0.0450, Kind: curve.KindDeposit},
		{Tenor: "3M", Rate: 0.0440, Kind: curve.KindDeposit},
		{Tenor: "6M", Rate: 0.0430, Kind: curve.KindDeposit},
		{Tenor: "1Y", Rate: 0.0400, Kind: curve.KindSwap},
		{Tenor: "2Y", Rate: 0.0380, Kind: curve.KindSwap},
		{Tenor: "3Y", Rate: 0.0365, Kind: curve.KindSwap},
		{Tenor: "5Y", Rate: 0.0355, Kind: curve.KindSwap},
		{Tenor: "7Y", Rate: 0.0360, Kind: curve.KindSwap},
		{Tenor: "10Y", Rate: 0.0370, Kind: curve.KindSwap},
		{Tenor: "15Y", Rate: 0.0380, Kind: curve.KindSwap},
		{Tenor: "20Y", Rate: 0.0385, Kind: curve.KindSwap},
		{Tenor: "30Y", Rate: 0.0380, Kind: curve.KindSwap},
	}
}

// Samples maps currency codes to their built-in quote sets.
func Samples(currency string) ([]curve.Quote, bool) {
	switch currency {
	case "EUR":
		return SampleEURQuotes(), true
	case "USD":
		return SampleUSDQuotes(), true
	}
	return nil, false
}
