package bootstrap

import (
	"context"
	"log/slog"

	"tool-rental/internal/infra/scheduler"
	"tool-rental/internal/pkg/config"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		scheduler.NewScheduler,
	),
	fx.Invoke(startScheduler),
)

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler, cfg config.SchedulerConfig, logger *slog.Logger) {
	if !cfg.Enabled {
		logger.Info("scheduler disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
