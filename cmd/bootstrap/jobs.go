package bootstrap

import (
	"context"
	"log/slog"

	"finca-reservations/internal/jobs"
	"finca-reservations/internal/pkg/config"
	"finca-reservations/internal/usecase/commands"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(startSweeper),
)

func NewSweeper(cfg config.Config, sweep commands.SweepCommands, logger *slog.Logger) (*jobs.Sweeper, error) {
	return jobs.NewSweeper(cfg.Ops, sweep, logger)
}

func startSweeper(lc fx.Lifecycle, sweeper *jobs.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sweeper.Stop(ctx)
		},
	})
}
