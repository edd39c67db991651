package output

import (
	"testing"

	"btc-price-history/internal/rates"
)

func TestMergeFirstRun(t *testing.T) {
	candidate := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00"}),
	}

	merged, changed := Merge(nil, candidate)
	if !changed {
		t.Fatal("first run must report changed")
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 row, got %d", len(merged))
	}
}

func TestMergeIdempotent(t *testing.T) {
	candidate := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00", rates.EUR: "40950.00"}),
		row(t, "2024-01-06", map[rates.Currency]string{rates.USD: "44100.00"}),
	}

	merged, changed := Merge(nil, candidate)
	if !changed {
		t.Fatal("first merge must report changed")
	}

	again, changed := Merge(merged, candidate)
	if changed {
		t.Fatal("re-merging the same candidate must report unchanged")
	}
	if len(again) != len(merged) {
		t.Fatalf("row count drifted: %d vs %d", len(again), len(merged))
	}
}

func TestMergeUnchangedAcrossPrecision(t *testing.T) {
	// A re-read table carries "45000.00"; a fresh computation may carry
	// 45000. Equal at output precision means unchanged.
	existing := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00"}),
	}
	candidate := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000"}),
	}

	_, changed := Merge(existing, candidate)
	if changed {
		t.Fatal("precision-only differences must not report changed")
	}
}

func TestMergeCandidateWinsOnCollision(t *testing.T) {
	existing := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00", rates.EUR: "40900.00"}),
	}
	candidate := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00", rates.EUR: "40950.00"}),
	}

	merged, changed := Merge(existing, candidate)
	if !changed {
		t.Fatal("a corrected cell must report changed")
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 row, got %d", len(merged))
	}
	eur, _ := merged[0].Price(rates.EUR)
	if !eur.Equal(dec(t, "40950.00")) {
		t.Fatalf("candidate must win on collision, got %s", eur)
	}
}

func TestMergePreservesHistoryAndSorts(t *testing.T) {
	existing := []rates.Row{
		row(t, "2024-01-03", map[rates.Currency]string{rates.USD: "43000.00"}),
		row(t, "2024-01-04", map[rates.Currency]string{rates.USD: "44000.00"}),
	}
	candidate := []rates.Row{
		row(t, "2024-01-06", map[rates.Currency]string{rates.USD: "46000.00"}),
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00"}),
	}

	merged, changed := Merge(existing, candidate)
	if !changed {
		t.Fatal("new rows must report changed")
	}
	if len(merged) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(merged))
	}
	seen := make(map[rates.Day]bool)
	for i, r := range merged {
		if seen[r.Day] {
			t.Fatalf("duplicate day %s", r.Day)
		}
		seen[r.Day] = true
		if i > 0 && !merged[i-1].Day.Before(r.Day) {
			t.Fatalf("rows not strictly ascending at index %d", i)
		}
	}
	usd, _ := merged[0].Price(rates.USD)
	if !usd.Equal(dec(t, "43000.00")) {
		t.Fatal("historical rows untouched by the run must be preserved")
	}
}
