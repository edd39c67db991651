package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"btc-price-history/internal/rates"
)

// Header is the exact column contract of the persisted table.
var Header = buildHeader()

func buildHeader() []string {
	header := make([]string, 0, len(rates.Supported)+1)
	header = append(header, "Date")
	for _, c := range rates.Supported {
		header = append(header, c.Column())
	}
	return header
}

// formatField renders a price with the currency's fixed precision: two
// decimals for most currencies, a bare integer for JPY and KRW.
func formatField(c rates.Currency, price decimal.Decimal) string {
	return price.StringFixed(c.DecimalPlaces())
}

// Encode writes rows as CSV, one per day, with absent values as empty
// fields. Rows are emitted in the order given.
func Encode(w io.Writer, rows []rates.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}

	record := make([]string, len(Header))
	for _, row := range rows {
		record[0] = row.Day.String()
		for i, c := range rates.Supported {
			if price, ok := row.Price(c); ok {
				record[i+1] = formatField(c, price)
			} else {
				record[i+1] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Decode reads a previously persisted table back into rows.
func Decode(r io.Reader) ([]rates.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected header column %q, want %q", header[i], col)
		}
	}

	var rows []rates.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		day, err := rates.ParseDay(record[0])
		if err != nil {
			return nil, err
		}

		row := rates.Row{Day: day, Prices: make(map[rates.Currency]decimal.Decimal, len(rates.Supported))}
		for i, c := range rates.Supported {
			field := record[i+1]
			if field == "" {
				continue
			}
			price, err := decimal.NewFromString(field)
			if err != nil {
				return nil, fmt.Errorf("row %s column %s: %w", record[0], c.Column(), err)
			}
			row.Prices[c] = price
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadFile loads the persisted table from disk. A missing file is an empty
// table (first run), not an error.
func ReadFile(path string) ([]rates.Row, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open persisted table: %w", err)
	}
	defer file.Close()

	rows, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rows, nil
}
