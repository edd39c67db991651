package output

import (
	"sort"

	"btc-price-history/internal/rates"
)

// Merge overlays candidate rows onto the existing persisted rows. On a date
// collision the candidate wins, so a provider restating a historical value
// flows through on the next run. The result is the union of dates, ascending,
// one row per day. The changed flag is true iff the merged table differs
// from the existing one in any cell or in row count.
func Merge(existing, candidate []rates.Row) (merged []rates.Row, changed bool) {
	byDay := make(map[rates.Day]rates.Row, len(existing)+len(candidate))
	for _, row := range existing {
		byDay[row.Day] = row
	}
	for _, row := range candidate {
		byDay[row.Day] = row
	}

	merged = make([]rates.Row, 0, len(byDay))
	for _, row := range byDay {
		merged = append(merged, row)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Day.Before(merged[j].Day) })

	return merged, !tablesEqual(existing, merged)
}

// tablesEqual compares two tables cell by cell at output precision, so a
// re-read 0.90 and a freshly computed 0.9 compare equal.
func tablesEqual(a, b []rates.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !rowsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func rowsEqual(a, b rates.Row) bool {
	if a.Day != b.Day {
		return false
	}
	for _, c := range rates.Supported {
		pa, oka := a.Price(c)
		pb, okb := b.Price(c)
		if oka != okb {
			return false
		}
		if oka && formatField(c, pa) != formatField(c, pb) {
			return false
		}
	}
	return true
}
