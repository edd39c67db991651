package app

import (
	"context"
	"fmt"

	"btc-price-history/internal/output"
	"btc-price-history/internal/rates"
)

// Generate executes one full pipeline run: fetch both datasets, build the
// price and rate tables, join, merge into the persisted table, and replace
// it atomically. It reports whether the persisted table changed, which the
// downstream commit job uses to decide whether to commit.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) (bool, error) {
	path := opts.OutputPath
	if path == "" {
		path = a.Config.Output.Path
	}

	priceSrc, rateSrc := a.newSources(opts)

	priceObs, err := priceSrc.FetchPrices(ctx)
	if err != nil {
		return false, fmt.Errorf("load bitcoin dataset: %w", err)
	}
	rateObs, err := rateSrc.FetchRates(ctx)
	if err != nil {
		return false, fmt.Errorf("load currency dataset: %w", err)
	}

	prices, err := rates.NewPriceTable(priceObs)
	if err != nil {
		return false, fmt.Errorf("build price table: %w", err)
	}
	fx, err := rates.NewRateTable(rateObs)
	if err != nil {
		return false, fmt.Errorf("build rate table: %w", err)
	}

	first, last := fx.Bounds()
	a.Logger.Info().
		Int("price_days", prices.Len()).
		Str("rates_from", first.String()).
		Str("rates_to", last.String()).
		Msg("tables built")

	candidate := rates.Join(prices, fx)

	existing, err := output.ReadFile(path)
	if err != nil {
		return false, err
	}

	merged, changed := output.Merge(existing, candidate)

	if opts.DryRun {
		a.Logger.Info().
			Bool("changed", changed).
			Int("rows", len(merged)).
			Msg("dry run, not writing output")
		return changed, nil
	}

	if err := output.WriteFile(path, merged); err != nil {
		return false, err
	}

	a.mirrorRows(ctx, merged)

	a.Logger.Info().
		Str("path", path).
		Int("rows", len(merged)).
		Bool("changed", changed).
		Msg("price table written")
	return changed, nil
}

// mirrorRows upserts the final table into Postgres when configured. Mirror
// failures are logged but never fail the run; the CSV is canonical.
func (a *App) mirrorRows(ctx context.Context, rows []rates.Row) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to open database mirror")
		return
	}
	if store == nil {
		return
	}
	if closeStore != nil {
		defer closeStore()
	}

	if err := store.UpsertRows(ctx, rows); err != nil {
		a.Logger.Error().Err(err).Msg("failed to mirror rows to database")
		return
	}

	count, err := store.CountRows(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to count mirrored rows")
		return
	}
	a.Logger.Info().Int64("rows", count).Msg("database mirror updated")
}
