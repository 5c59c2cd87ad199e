package bootstrap

import (
	"tool-rental/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.PersistenceModule,
	components.InfraModule,
	SessionModule,
	components.UseCaseModule,
	components.HandlerModule,
	SchedulerModule,
)
