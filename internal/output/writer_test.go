package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"btc-price-history/internal/rates"
)

func TestWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "daily_bitcoin_prices.csv")

	first := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00"}),
	}
	if err := WriteFile(path, first); err != nil {
		t.Fatalf("write: %v", err)
	}

	second := append(first,
		row(t, "2024-01-06", map[rates.Currency]string{rates.USD: "44100.00"}),
	)
	if err := WriteFile(path, second); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileFailureKeepsPrior(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.csv")

	rows := []rates.Row{
		row(t, "2024-01-05", map[rates.Currency]string{rates.USD: "45000.00"}),
	}
	if err := WriteFile(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Renaming over a directory fails after the temp file is written.
	blocked := filepath.Join(dir, "blocked")
	if err := os.MkdirAll(filepath.Join(blocked, "x"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	err = WriteFile(blocked, rows)
	if err == nil {
		t.Fatal("expected an error writing over a directory")
	}
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("prior table must remain intact after a failed write")
	}
}
