package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"btc-price-history/internal/config"
	"btc-price-history/internal/rates"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testApp(t *testing.T, outputPath string) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Output.Path = outputPath
	cfg.Chart.Width = 640
	cfg.Chart.Height = 480
	cfg.Chart.MaxDataPoints = 1000
	return NewApp(cfg, noopLogger())
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "daily_bitcoin_prices.csv")

	btc := writeFixture(t, dir, "btc.csv", strings.Join([]string{
		"Date,Close",
		"2024-01-05,45000.00",
		"2024-01-06,44100.00",
	}, "\n"))
	fx := writeFixture(t, dir, "fx.csv", strings.Join([]string{
		"Date,EUR,JPY",
		"2024-01-05,0.91,148.2",
	}, "\n"))

	a := testApp(t, out)
	opts := GenerateOptions{BTCCSVPath: btc, FXCSVPath: fx}

	changed, err := a.Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !changed {
		t.Fatal("first run must report changed")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[1] != "2024-01-05,45000.00,40950.00,,6669000,,,,,,,," {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	// The 6th has no FX observation; the 5th's rates forward-fill.
	if lines[2] != "2024-01-06,44100.00,40131.00,,6535620,,,,,,,," {
		t.Fatalf("unexpected second row: %s", lines[2])
	}

	// Same inputs again: merge is idempotent and reports unchanged.
	changed, err = a.Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if changed {
		t.Fatal("identical re-run must report unchanged")
	}
}

func TestGenerateAppliesCorrections(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "daily_bitcoin_prices.csv")

	btc := writeFixture(t, dir, "btc.csv", "Date,Close\n2024-01-05,45000.00\n")
	staleFX := writeFixture(t, dir, "fx_stale.csv", "Date,EUR\n2024-01-05,0.9089\n")
	fixedFX := writeFixture(t, dir, "fx_fixed.csv", "Date,EUR\n2024-01-05,0.91\n")

	a := testApp(t, out)

	if _, err := a.Generate(context.Background(), GenerateOptions{BTCCSVPath: btc, FXCSVPath: staleFX}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	changed, err := a.Generate(context.Background(), GenerateOptions{BTCCSVPath: btc, FXCSVPath: fixedFX})
	if err != nil {
		t.Fatalf("corrected run: %v", err)
	}
	if !changed {
		t.Fatal("a restated rate must report changed")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "2024-01-05,45000.00,40950.00") {
		t.Fatalf("corrected value missing from output:\n%s", data)
	}
}

func TestGenerateEmptyDatasetAborts(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "daily_bitcoin_prices.csv")

	btc := writeFixture(t, dir, "btc.csv", "Date,Close\n2024-01-05,45000.00\n")
	emptyFX := writeFixture(t, dir, "fx.csv", "Date,EUR\n")

	a := testApp(t, out)
	_, err := a.Generate(context.Background(), GenerateOptions{BTCCSVPath: btc, FXCSVPath: emptyFX})
	if !errors.Is(err, rates.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}

	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("a failed run must not create the output file")
	}
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "daily_bitcoin_prices.csv")

	btc := writeFixture(t, dir, "btc.csv", "Date,Close\n2024-01-05,45000.00\n")
	fx := writeFixture(t, dir, "fx.csv", "Date,EUR\n2024-01-05,0.91\n")

	a := testApp(t, out)
	changed, err := a.Generate(context.Background(), GenerateOptions{BTCCSVPath: btc, FXCSVPath: fx, DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !changed {
		t.Fatal("dry run must still report what would change")
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("dry run must not write the output file")
	}
}
