package components

import (
	"log/slog"

	"tool-rental/internal/infra/directory"
	"tool-rental/internal/infra/export"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/metrics"
	"tool-rental/internal/usecase/shared"

	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			func(cfg config.Config, clk clock.Clock, logger *slog.Logger) *directory.Client {
				return directory.NewClient(cfg.Directory, clk, logger)
			},
			fx.As(new(shared.EmployeeDirectory)),
		),
		export.NewXLSXExporter,
	),
	fx.Invoke(metrics.Register),
)
