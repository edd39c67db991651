package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"btc-price-history/internal/output"
	"btc-price-history/internal/rates"
)

// Chart renders the price history of selected currencies as a PNG.
func (a *App) Chart(ctx context.Context, opts ChartOptions) error {
	if opts.PNGPath == "" {
		return errors.New("--png path must be provided")
	}

	currencies := make([]rates.Currency, 0, len(opts.Currencies))
	if len(opts.Currencies) == 0 {
		currencies = append(currencies, rates.USD)
	}
	for _, code := range opts.Currencies {
		c, err := rates.ParseCurrency(code)
		if err != nil {
			return err
		}
		currencies = append(currencies, c)
	}

	rows, err := output.ReadFile(a.Config.Output.Path)
	if err != nil {
		return err
	}

	rows = filterRows(rows, opts.From, opts.To)
	if len(rows) == 0 {
		a.Logger.Info().Msg("no rows found for chart window")
		return nil
	}

	maxPoints := a.Config.ResolveMaxPoints(opts.MaxPoints)
	downsampled := downsampleRows(rows, maxPoints)
	a.Logger.Info().Int("total", len(rows)).Int("charted", len(downsampled)).Msg("rendering chart")

	series := make([]chart.Series, 0, len(currencies))
	for _, c := range currencies {
		var xs []time.Time
		var ys []float64
		for _, row := range downsampled {
			price, ok := row.Price(c)
			if !ok {
				continue
			}
			xs = append(xs, row.Day.Time())
			ys = append(ys, price.InexactFloat64())
		}
		if len(xs) == 0 {
			a.Logger.Warn().Str("currency", string(c)).Msg("no data points for currency, skipping series")
			continue
		}
		series = append(series, chart.TimeSeries{
			Name:    c.Column(),
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return errors.New("no data points for any requested currency")
	}

	graph := chart.Chart{
		Width:  a.Config.Chart.Width,
		Height: a.Config.Chart.Height,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Price",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := ensureDir(opts.PNGPath); err != nil {
		return err
	}
	file, err := os.Create(opts.PNGPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := graph.Render(chart.PNG, file); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func filterRows(rows []rates.Row, from, to *time.Time) []rates.Row {
	if from == nil && to == nil {
		return rows
	}
	filtered := make([]rates.Row, 0, len(rows))
	for _, row := range rows {
		t := row.Day.Time()
		if from != nil && t.Before(from.UTC()) {
			continue
		}
		if to != nil && !t.Before(to.UTC()) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func downsampleRows(rows []rates.Row, max int) []rates.Row {
	if max <= 0 || len(rows) <= max {
		return rows
	}

	result := make([]rates.Row, 0, max)
	step := float64(len(rows)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(rows) {
			idx = len(rows) - 1
		}
		result = append(result, rows[idx])
	}
	return result
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
