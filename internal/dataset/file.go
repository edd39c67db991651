package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"btc-price-history/internal/rates"
)

// FilePrices reads daily BTC/USD observations from a local CSV with Date
// and price columns, for offline runs where the dataset is pre-downloaded.
type FilePrices struct {
	Path string
}

// FetchPrices implements PriceSource.
func (f FilePrices) FetchPrices(ctx context.Context) ([]rates.PriceObservation, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer file.Close()

	obs, err := ParseDailyPrices(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return obs, nil
}

// FileRates reads exchange-rate observations from a local CSV, in either the
// wide shape (Date plus one column per currency) or the long shape
// (Date,Currency,Rate).
type FileRates struct {
	Path string
}

// FetchRates implements RateSource.
func (f FileRates) FetchRates(ctx context.Context) ([]rates.RateObservation, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open rate file: %w", err)
	}
	defer file.Close()

	obs, err := ParseRateRecords(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return obs, nil
}

// ParseDailyPrices reads a two-column daily price CSV (Date, price). Rows
// with an unparseable date or value are dropped.
func ParseDailyPrices(r io.Reader) ([]rates.PriceObservation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var obs []rates.PriceObservation
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		day, err := parseFlexibleDay(record[0])
		if err != nil {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}

		obs = append(obs, rates.PriceObservation{Day: day, USD: price})
	}
	return obs, nil
}

// ParseRateRecords normalizes a rate CSV of either shape into the uniform
// observation stream. The header decides: a currency-code column per quote
// currency means wide, a Currency column means long.
func ParseRateRecords(r io.Reader) ([]rates.RateObservation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	wideCols := make(map[int]rates.Currency)
	currencyCol := -1
	for i, col := range header {
		name := strings.ToUpper(strings.TrimSpace(col))
		if name == "CURRENCY" {
			currencyCol = i
			continue
		}
		code := strings.TrimSuffix(name, "_RATE")
		if c, err := rates.ParseCurrency(code); err == nil && c != rates.USD {
			wideCols[i] = c
		}
	}

	switch {
	case len(wideCols) > 0:
		return parseWideRates(cr, wideCols)
	case currencyCol >= 0:
		return parseLongRates(cr, currencyCol)
	default:
		return nil, fmt.Errorf("header %v is neither wide nor long rate format", header)
	}
}

func parseWideRates(cr *csv.Reader, cols map[int]rates.Currency) ([]rates.RateObservation, error) {
	var obs []rates.RateObservation
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		day, err := parseFlexibleDay(record[0])
		if err != nil {
			continue
		}
		for i, c := range cols {
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				continue
			}
			rate, err := decimal.NewFromString(strings.TrimSpace(record[i]))
			if err != nil {
				continue
			}
			obs = append(obs, rates.RateObservation{Day: day, Currency: c, Rate: rate})
		}
	}
	return obs, nil
}

func parseLongRates(cr *csv.Reader, currencyCol int) ([]rates.RateObservation, error) {
	var obs []rates.RateObservation
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) <= currencyCol+1 {
			continue
		}

		day, err := parseFlexibleDay(record[0])
		if err != nil {
			continue
		}
		c, err := rates.ParseCurrency(strings.ToUpper(strings.TrimSpace(record[currencyCol])))
		if err != nil || c == rates.USD {
			continue
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(record[currencyCol+1]))
		if err != nil {
			continue
		}

		obs = append(obs, rates.RateObservation{Day: day, Currency: c, Rate: rate})
	}
	return obs, nil
}

var (
	_ PriceSource = FilePrices{}
	_ RateSource  = FileRates{}
)
