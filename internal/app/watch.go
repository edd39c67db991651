package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"btc-price-history/internal/scheduler"
)

// Watch runs the pipeline unattended on the configured cadence, one full
// generate per interval. The daily Kaggle refresh makes a 24h aligned
// interval the natural default.
func (a *App) Watch(ctx context.Context, opts GenerateOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting watch loop")

	err := sched.Run(ctx, func(ctx context.Context, bucket time.Time) error {
		changed, err := a.Generate(ctx, opts)
		if err != nil {
			return err
		}
		a.Logger.Info().Time("bucket", bucket).Bool("changed", changed).Msg("scheduled run complete")
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch loop terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch loop stopped")
	return nil
}
