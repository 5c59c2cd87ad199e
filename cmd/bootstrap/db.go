package bootstrap

import (
	"context"
	"log/slog"

	"tool-rental/internal/infra/db"
	"tool-rental/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(NewDB),
)

// NewDB opens the rental database pool and closes it when the app stops.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			stat := pool.Stat()
			slog.Info("rental database ready", "host", cfg.DB.Host, "name", cfg.DB.DBName, "max_conns", stat.MaxConns())
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			slog.Info("rental database pool closed")
			return nil
		},
	})

	return pool, nil
}
