package rates

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func day(t *testing.T, s string) Day {
	t.Helper()
	d, err := ParseDay(s)
	if err != nil {
		t.Fatalf("parse day %s: %v", s, err)
	}
	return d
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %s: %v", s, err)
	}
	return d
}

func TestNewRateTableEmpty(t *testing.T) {
	if _, err := NewRateTable(nil); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestRateTableForwardFillOverGap(t *testing.T) {
	obs := []RateObservation{
		{Day: day(t, "2024-01-05"), Currency: EUR, Rate: dec(t, "0.90")},
		{Day: day(t, "2024-01-10"), Currency: EUR, Rate: dec(t, "0.92")},
	}

	table, err := NewRateTable(obs)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	for _, s := range []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09"} {
		rate, ok := table.Rate(day(t, s), EUR)
		if !ok {
			t.Fatalf("expected a filled rate on %s", s)
		}
		if !rate.Equal(dec(t, "0.90")) {
			t.Fatalf("expected 0.90 on %s, got %s", s, rate)
		}
	}

	rate, ok := table.Rate(day(t, "2024-01-10"), EUR)
	if !ok || !rate.Equal(dec(t, "0.92")) {
		t.Fatalf("expected 0.92 on 2024-01-10, got %s (ok=%v)", rate, ok)
	}
}

func TestRateTableFillIsPerCurrency(t *testing.T) {
	obs := []RateObservation{
		{Day: day(t, "2024-01-01"), Currency: EUR, Rate: dec(t, "0.90")},
		{Day: day(t, "2024-01-01"), Currency: JPY, Rate: dec(t, "148")},
		{Day: day(t, "2024-01-02"), Currency: JPY, Rate: dec(t, "149")},
	}

	table, err := NewRateTable(obs)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	// EUR had no observation on the 2nd; its own last-known value carries.
	rate, ok := table.Rate(day(t, "2024-01-02"), EUR)
	if !ok || !rate.Equal(dec(t, "0.90")) {
		t.Fatalf("expected EUR 0.90 on 2024-01-02, got %s (ok=%v)", rate, ok)
	}
	rate, ok = table.Rate(day(t, "2024-01-02"), JPY)
	if !ok || !rate.Equal(dec(t, "149")) {
		t.Fatalf("expected JPY 149 on 2024-01-02, got %s (ok=%v)", rate, ok)
	}
}

func TestRateTableNoRateBeforeFirstObservation(t *testing.T) {
	obs := []RateObservation{
		{Day: day(t, "2024-01-01"), Currency: EUR, Rate: dec(t, "0.90")},
		{Day: day(t, "2024-01-03"), Currency: GBP, Rate: dec(t, "0.79")},
	}

	table, err := NewRateTable(obs)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	for _, s := range []string{"2024-01-01", "2024-01-02"} {
		if _, ok := table.Rate(day(t, s), GBP); ok {
			t.Fatalf("GBP should be absent on %s, before its first observation", s)
		}
	}
	if _, ok := table.Rate(day(t, "2024-01-03"), GBP); !ok {
		t.Fatal("GBP should be present from its first observation on")
	}
}

func TestRateTableBeyondAxisUsesFinalRate(t *testing.T) {
	obs := []RateObservation{
		{Day: day(t, "2024-01-05"), Currency: EUR, Rate: dec(t, "0.91")},
	}

	table, err := NewRateTable(obs)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	// BTC trades on days FX sources do not publish; the final known rate
	// carries forward past the axis.
	rate, ok := table.Rate(day(t, "2024-01-07"), EUR)
	if !ok || !rate.Equal(dec(t, "0.91")) {
		t.Fatalf("expected 0.91 past the axis, got %s (ok=%v)", rate, ok)
	}

	if _, ok := table.Rate(day(t, "2024-01-04"), EUR); ok {
		t.Fatal("days before the axis must have no rate")
	}
}

func TestRateTableDuplicateObservationLastSeenWins(t *testing.T) {
	obs := []RateObservation{
		{Day: day(t, "2024-01-05"), Currency: EUR, Rate: dec(t, "0.88")},
		{Day: day(t, "2024-01-05"), Currency: EUR, Rate: dec(t, "0.91")},
	}

	table, err := NewRateTable(obs)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	rate, ok := table.Rate(day(t, "2024-01-05"), EUR)
	if !ok || !rate.Equal(dec(t, "0.91")) {
		t.Fatalf("expected last observation to win, got %s (ok=%v)", rate, ok)
	}
}

func TestNewPriceTable(t *testing.T) {
	if _, err := NewPriceTable(nil); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}

	obs := []PriceObservation{
		{Day: day(t, "2024-01-06"), USD: dec(t, "44000")},
		{Day: day(t, "2024-01-05"), USD: dec(t, "45000")},
		{Day: day(t, "2024-01-05"), USD: dec(t, "45100")},
	}

	table, err := NewPriceTable(obs)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	days := table.Days()
	if len(days) != 2 {
		t.Fatalf("expected 2 distinct days, got %d", len(days))
	}
	if days[0] != day(t, "2024-01-05") || days[1] != day(t, "2024-01-06") {
		t.Fatalf("days not ascending: %v", days)
	}

	price, ok := table.USD(day(t, "2024-01-05"))
	if !ok || !price.Equal(dec(t, "45100")) {
		t.Fatalf("expected last duplicate to win, got %s (ok=%v)", price, ok)
	}
}
