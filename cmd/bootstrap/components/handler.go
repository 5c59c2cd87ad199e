package components

import (
	"tool-rental/internal/handler"
	"tool-rental/internal/handler/api"
	"tool-rental/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewRentalHandler,
		api.NewUserHandler,
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
