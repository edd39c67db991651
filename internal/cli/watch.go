package cli

import (
	"github.com/spf13/cobra"

	"btc-price-history/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on the configured schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Watch(cmd.Context(), app.GenerateOptions{})
	},
}
