package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"btc-price-history/internal/output"
	"btc-price-history/internal/rates"
)

// Show prints the trailing rows of the persisted table.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	rows, err := output.ReadFile(a.Config.Output.Path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "no rows found")
		return nil
	}

	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[len(rows)-opts.Limit:]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, strings.Join(output.Header, "\t"))

	for _, row := range rows {
		fields := make([]string, 0, len(rates.Supported)+1)
		fields = append(fields, row.Day.String())
		for _, c := range rates.Supported {
			if price, ok := row.Price(c); ok {
				fields = append(fields, price.StringFixed(c.DecimalPlaces()))
			} else {
				fields = append(fields, "-")
			}
		}
		fmt.Fprintln(writer, strings.Join(fields, "\t"))
	}

	return writer.Flush()
}
