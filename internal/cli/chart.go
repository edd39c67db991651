package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"btc-price-history/internal/app"
)

var (
	chartPNGPath    string
	chartCurrencies []string
	chartFrom       string
	chartTo         string
	chartMaxPoints  int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render price history as a PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ChartOptions{
			PNGPath:    chartPNGPath,
			Currencies: chartCurrencies,
			MaxPoints:  chartMaxPoints,
		}

		if chartFrom != "" {
			from, err := time.Parse("2006-01-02", chartFrom)
			if err != nil {
				return fmt.Errorf("invalid --from value: %w", err)
			}
			opts.From = &from
		}

		if chartTo != "" {
			to, err := time.Parse("2006-01-02", chartTo)
			if err != nil {
				return fmt.Errorf("invalid --to value: %w", err)
			}
			opts.To = &to
		}

		return getApp().Chart(cmd.Context(), opts)
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartPNGPath, "png", "", "Path to write PNG chart")
	chartCmd.Flags().StringSliceVar(&chartCurrencies, "currency", []string{"USD"}, "Currencies to chart")
	chartCmd.Flags().StringVar(&chartFrom, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	chartCmd.Flags().StringVar(&chartTo, "to", "", "End date (YYYY-MM-DD, exclusive)")
	chartCmd.Flags().IntVar(&chartMaxPoints, "max-points", 0, "Maximum data points to chart (defaults to config)")
}
