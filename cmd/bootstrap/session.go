package bootstrap

import (
	"context"
	"log/slog"

	"tool-rental/internal/handler/middleware"
	"tool-rental/internal/infra/sessionstore"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/loginguard"
	"tool-rental/internal/pkg/session"
	"tool-rental/internal/usecase/commands"

	"go.uber.org/fx"
)

var SessionModule = fx.Module("session",
	fx.Provide(
		NewRevocationStore,
		NewSessionService,
		func(s *session.Service) commands.SessionIssuer { return s },
		func(s *session.Service) middleware.TokenParser { return s },
		fx.Annotate(
			loginguard.New,
			fx.As(new(commands.LoginGuard)),
		),
	),
)

// NewRevocationStore uses redis when REDIS_ADDR is set so revocations survive
// restarts and are shared between instances.
func NewRevocationStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (session.RevocationStore, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("session revocations kept in memory")
		return sessionstore.NewMemoryStore(clk), nil
	}

	client := sessionstore.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sessionstore.Ping(ctx, client)
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	logger.Info("session revocations kept in redis", "addr", cfg.Redis.Addr)
	return sessionstore.NewRedisStore(client, clk.Now), nil
}

func NewSessionService(cfg config.SessionConfig, clk clock.Clock, revoked session.RevocationStore) *session.Service {
	return session.NewService(cfg.Secret, cfg.TTL, clk, revoked)
}
