package rates

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceTable holds the USD-denominated Bitcoin price, one entry per calendar
// day. Days with no observation simply do not appear; no filling is applied.
type PriceTable struct {
	days []Day
	usd  map[Day]decimal.Decimal
}

// NewPriceTable collapses raw observations into a table. It returns
// ErrDataUnavailable when the input is empty.
func NewPriceTable(obs []PriceObservation) (*PriceTable, error) {
	if len(obs) == 0 {
		return nil, ErrDataUnavailable
	}

	usd := CollapsePricesLastSeen(obs)

	days := make([]Day, 0, len(usd))
	for day := range usd {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	return &PriceTable{days: days, usd: usd}, nil
}

// Days returns every day with a price, ascending.
func (t *PriceTable) Days() []Day {
	return t.days
}

// USD returns the price for a day, if observed.
func (t *PriceTable) USD(d Day) (decimal.Decimal, bool) {
	price, ok := t.usd[d]
	return price, ok
}

// Len reports the number of distinct days in the table.
func (t *PriceTable) Len() int {
	return len(t.days)
}
