package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"btc-price-history/internal/config"
	"btc-price-history/internal/dataset"
	"btc-price-history/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// newSources picks the dataset sources for a run: local CSV files when the
// override paths are set, Kaggle downloads otherwise.
func (a *App) newSources(opts GenerateOptions) (dataset.PriceSource, dataset.RateSource) {
	var prices dataset.PriceSource
	var fx dataset.RateSource

	if opts.BTCCSVPath != "" {
		prices = dataset.FilePrices{Path: opts.BTCCSVPath}
	}
	if opts.FXCSVPath != "" {
		fx = dataset.FileRates{Path: opts.FXCSVPath}
	}
	if prices != nil && fx != nil {
		return prices, fx
	}

	client := dataset.NewKaggleClient(dataset.KaggleOptions{
		Username:  a.Config.Kaggle.Username,
		Key:       a.Config.Kaggle.Key,
		BaseURL:   a.Config.Kaggle.BaseURL,
		Timeout:   a.Config.Kaggle.RequestTimeout,
		UserAgent: a.Config.Kaggle.UserAgent,
	}, a.Logger)

	if prices == nil {
		prices = dataset.NewBitcoinSource(client, a.Config.Kaggle.BitcoinDataset, a.Config.Kaggle.BitcoinFile, a.Logger)
	}
	if fx == nil {
		fx = dataset.NewCurrencySource(client, a.Config.Kaggle.CurrencyDataset, a.Logger)
	}
	return prices, fx
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// GenerateOptions hold parameters for a single pipeline run.
type GenerateOptions struct {
	BTCCSVPath string
	FXCSVPath  string
	OutputPath string
	DryRun     bool
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ChartOptions configure the chart command.
type ChartOptions struct {
	PNGPath    string
	Currencies []string
	From       *time.Time
	To         *time.Time
	MaxPoints  int
}
