package rates

import (
	"github.com/shopspring/decimal"
)

// Row is one day of the output table. Prices always carries USD; a quote
// currency is absent when no rate was ever observed at or before the day.
type Row struct {
	Day    Day
	Prices map[Currency]decimal.Decimal
}

// Price returns the row's price in a currency, if present.
func (r Row) Price(c Currency) (decimal.Decimal, bool) {
	p, ok := r.Prices[c]
	return p, ok
}

// Join derives the per-currency Bitcoin price for every day in the price
// table, ascending. The price table is authoritative for row existence:
// days with rates but no BTC price produce no row. Derived values round half
// away from zero to the currency's precision.
func Join(prices *PriceTable, fx *RateTable) []Row {
	rows := make([]Row, 0, prices.Len())
	for _, day := range prices.Days() {
		usd, ok := prices.USD(day)
		if !ok {
			continue
		}

		row := Row{Day: day, Prices: make(map[Currency]decimal.Decimal, len(Supported))}
		row.Prices[USD] = usd.Round(USD.DecimalPlaces())

		for _, c := range Quotes {
			rate, ok := fx.Rate(day, c)
			if !ok {
				continue
			}
			row.Prices[c] = usd.Mul(rate).Round(c.DecimalPlaces())
		}

		rows = append(rows, row)
	}
	return rows
}
