//go:build unit || e2e

package authtest

import (
	"testing"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/infra/sessionstore"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/session"

	"github.com/stretchr/testify/require"
)

// SessionHelper signs session tokens the way the login endpoint would.
type SessionHelper struct {
	Service *session.Service
	Clock   *clock.MockClock
}

func NewSessionHelper(cfg config.SessionConfig, clk *clock.MockClock) *SessionHelper {
	return &SessionHelper{
		Service: session.NewService(cfg.Secret, cfg.TTL, clk, sessionstore.NewMemoryStore(clk)),
		Clock:   clk,
	}
}

func Principal(employeeID int64, role user.Role) auth.Principal {
	return auth.Principal{
		EmployeeID:  employeeID,
		DisplayName: "Test User",
		Name:        "Test User",
		Role:        role,
		Rights:      user.BaselineRights(role),
	}
}

func (h *SessionHelper) Token(t *testing.T, p auth.Principal) string {
	t.Helper()
	token, _, err := h.Service.Issue(p)
	require.NoError(t, err)
	return token
}

// ExpiredToken returns a token whose ttl has already passed on the helper clock.
func (h *SessionHelper) ExpiredToken(t *testing.T, p auth.Principal) string {
	t.Helper()
	token := h.Token(t, p)
	h.Clock.Add(h.Service.TTL() + 1)
	return token
}
