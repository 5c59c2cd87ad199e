package sessionstore

import (
	"context"
	"time"

	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:revoked:"

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return errs.Wrap(err, "failed to ping redis")
	}
	return nil
}

// RedisStore keeps revoked token ids as keys that expire with the token.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, now func() time.Time) *RedisStore {
	return &RedisStore{client: client, now: now}
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to store revoked session")
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, errs.Wrap(err, "failed to look up revoked session")
	}
	return n > 0, nil
}
