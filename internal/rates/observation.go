package rates

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDataUnavailable signals that a source dataset carried no usable
// observations. Runs abort on it without touching the persisted table.
var ErrDataUnavailable = errors.New("rates: dataset empty or unavailable")

// PriceObservation is one raw BTC/USD data point from the price dataset.
type PriceObservation struct {
	Day Day
	USD decimal.Decimal
}

// RateObservation is one raw exchange-rate data point: units of Currency per
// 1 USD on Day.
type RateObservation struct {
	Day      Day
	Currency Currency
	Rate     decimal.Decimal
}

// CollapsePricesLastSeen reduces duplicate observations for the same day to
// the last one in source order. Upstream ordering within a day is not
// documented, so the tie-break is fixed here rather than left to map
// iteration.
func CollapsePricesLastSeen(obs []PriceObservation) map[Day]decimal.Decimal {
	prices := make(map[Day]decimal.Decimal, len(obs))
	for _, o := range obs {
		prices[o.Day] = o.USD
	}
	return prices
}

// CollapseRatesLastSeen groups rate observations by day with the same
// last-seen-wins tie-break applied per (day, currency) pair.
func CollapseRatesLastSeen(obs []RateObservation) map[Day]map[Currency]decimal.Decimal {
	byDay := make(map[Day]map[Currency]decimal.Decimal)
	for _, o := range obs {
		day := byDay[o.Day]
		if day == nil {
			day = make(map[Currency]decimal.Decimal, len(Quotes))
			byDay[o.Day] = day
		}
		day[o.Currency] = o.Rate
	}
	return byDay
}
