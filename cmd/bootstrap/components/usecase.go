package components

import (
	"tool-rental/internal/usecase/commands"
	"tool-rental/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewRentalCommands,
		commands.NewUserCommands,
		commands.NewNotificationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRentalQueries,
		queries.NewUserQueries,
		queries.NewEmployeeQueries,
		queries.NewNotificationQueries,
	),
)
