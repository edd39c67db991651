package dataset

import (
	"context"

	"btc-price-history/internal/rates"
)

// PriceSource yields the full daily BTC/USD price history.
type PriceSource interface {
	FetchPrices(ctx context.Context) ([]rates.PriceObservation, error)
}

// RateSource yields raw exchange-rate observations for the supported quote
// currencies, in units of foreign currency per 1 USD.
type RateSource interface {
	FetchRates(ctx context.Context) ([]rates.RateObservation, error)
}
