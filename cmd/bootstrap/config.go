package bootstrap

import (
	"tool-rental/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(config.LoadConfig),
	ConfigSections,
)

// ConfigSections exposes the config sections consumed by individual
// components. It expects a config.Config to be provided elsewhere.
var ConfigSections = fx.Provide(
	func(cfg config.Config) config.RentalConfig { return cfg.Rental },
	func(cfg config.Config) config.AuthConfig { return cfg.Auth },
	func(cfg config.Config) config.SessionConfig { return cfg.Session },
	func(cfg config.Config) config.SchedulerConfig { return cfg.Scheduler },
	func(cfg config.Config) config.LoginGuardConfig { return cfg.LoginGuard },
)
