package components

import (
	"tool-rental/internal/infra/uow"

	"go.uber.org/fx"
)

// Repositories are created per transaction by the unit of work.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)
