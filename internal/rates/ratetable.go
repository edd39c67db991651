package rates

import (
	"github.com/shopspring/decimal"
)

// RateTable maps every day on a dense date axis to an exchange rate per
// quote currency. Gaps in the source (weekends, holidays, provider outages)
// are forward-filled per currency from the most recent observation; a
// currency has no value for days before its first observation.
type RateTable struct {
	first Day
	last  Day
	rates map[Day]map[Currency]decimal.Decimal
}

// NewRateTable builds the table from raw observations. The date axis spans
// the earliest to the latest observed day inclusive, independent of source
// gaps. Returns ErrDataUnavailable when the input is empty.
func NewRateTable(obs []RateObservation) (*RateTable, error) {
	if len(obs) == 0 {
		return nil, ErrDataUnavailable
	}

	observed := CollapseRatesLastSeen(obs)

	var first, last Day
	for day := range observed {
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	filled := make(map[Day]map[Currency]decimal.Decimal)
	// Accumulator for the walk; scoped to this construction only.
	lastKnown := make(map[Currency]decimal.Decimal, len(Quotes))

	for day := first; !day.After(last); day = day.Next() {
		for c, rate := range observed[day] {
			lastKnown[c] = rate
		}
		cell := make(map[Currency]decimal.Decimal, len(lastKnown))
		for c, rate := range lastKnown {
			cell[c] = rate
		}
		filled[day] = cell
	}

	return &RateTable{first: first, last: last, rates: filled}, nil
}

// Rate returns the (possibly forward-filled) rate for a currency on a day.
// Days after the axis use the final known rate, since the price series keeps
// trading on days the FX sources do not publish. Days before the axis, or
// before the currency's first observation, have no rate.
func (t *RateTable) Rate(d Day, c Currency) (decimal.Decimal, bool) {
	if d.Before(t.first) {
		return decimal.Decimal{}, false
	}
	if d.After(t.last) {
		d = t.last
	}
	rate, ok := t.rates[d][c]
	return rate, ok
}

// Bounds returns the first and last day of the date axis.
func (t *RateTable) Bounds() (Day, Day) {
	return t.first, t.last
}
