package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"btc-price-history/internal/app"
)

var (
	generateBTCCSV string
	generateFXCSV  string
	generateOutput string
	generateDryRun bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the pipeline once and update the price table",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.GenerateOptions{
			BTCCSVPath: generateBTCCSV,
			FXCSVPath:  generateFXCSV,
			OutputPath: generateOutput,
			DryRun:     generateDryRun,
		}

		changed, err := getApp().Generate(cmd.Context(), opts)
		if err != nil {
			return err
		}

		// The commit job reads this line to decide whether to commit.
		fmt.Fprintf(cmd.OutOrStdout(), "changed=%t\n", changed)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateBTCCSV, "btc-csv", "", "Read BTC/USD prices from a local CSV instead of Kaggle")
	generateCmd.Flags().StringVar(&generateFXCSV, "fx-csv", "", "Read exchange rates from a local CSV instead of Kaggle")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "Output path (defaults to config)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Compute and report changes without writing")
}
