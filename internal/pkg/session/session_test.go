//go:build unit

package session_test

import (
	"context"
	"testing"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-session-secret-with-at-least-32-chars"

type revocations map[string]time.Time

func (r revocations) Revoke(_ context.Context, id string, until time.Time) error {
	r[id] = until
	return nil
}

func (r revocations) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r[id]
	return ok, nil
}

func principal() auth.Principal {
	return auth.Principal{
		EmployeeID:  4711,
		DisplayName: "JR - Jane Roe",
		Name:        "Jane Roe",
		Initials:    "JR",
		Role:        user.RoleUser,
		Rights:      user.BaselineRights(user.RoleUser),
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

	t.Run("issued token round trips the principal", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		svc := session.NewService(secret, 12*time.Hour, clk, revocations{})

		token, expiresAt, err := svc.Issue(principal())
		require.NoError(t, err)
		assert.Equal(t, start.Add(12*time.Hour), expiresAt)

		claims, err := svc.Parse(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, principal(), claims.Principal)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		svc := session.NewService(secret, time.Hour, clk, revocations{})
		token, _, err := svc.Issue(principal())
		require.NoError(t, err)

		clk.Add(2 * time.Hour)
		_, err = svc.Parse(ctx, token)
		require.ErrorIs(t, err, session.ErrExpiredToken)
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		other := session.NewService("another-secret-with-at-least-32-characters", time.Hour, clk, revocations{})
		token, _, err := other.Issue(principal())
		require.NoError(t, err)

		svc := session.NewService(secret, time.Hour, clk, revocations{})
		_, err = svc.Parse(ctx, token)
		require.ErrorIs(t, err, session.ErrInvalidToken)
	})

	t.Run("revoked token is rejected until it expires", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		store := revocations{}
		svc := session.NewService(secret, time.Hour, clk, store)
		token, expiresAt, err := svc.Issue(principal())
		require.NoError(t, err)

		require.NoError(t, svc.Revoke(ctx, token))
		_, err = svc.Parse(ctx, token)
		require.ErrorIs(t, err, session.ErrRevokedToken)
		require.Len(t, store, 1)
		for _, until := range store {
			assert.True(t, until.Equal(expiresAt))
		}
	})

	t.Run("revoking garbage is a no-op", func(t *testing.T) {
		store := revocations{}
		svc := session.NewService(secret, time.Hour, clock.NewMockClock(start), store)
		require.NoError(t, svc.Revoke(ctx, "not-a-token"))
		require.NoError(t, svc.Revoke(ctx, ""))
		assert.Empty(t, store)
	})
}
