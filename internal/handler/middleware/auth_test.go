//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"tool-rental/internal/domain/user"
	"tool-rental/internal/handler/middleware"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/tests/common/authtest"
	"tool-rental/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *authtest.SessionHelper, config.SessionConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig().Session
	sessions := authtest.NewSessionHelper(cfg, clock.NewMockClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)))
	mw := middleware.NewAuthMiddleware(sessions.Service, cfg)

	router := gin.New()
	router.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		p, ok := middleware.GetPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"employeeID": p.EmployeeID, "token": middleware.GetSessionToken(c)})
	})
	router.GET("/users", mw.RequireAuth(), mw.RequireRight(user.RightManageUsers), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router, sessions, cfg
}

func TestRequireAuth(t *testing.T) {
	router, sessions, cfg := newAuthRouter(t)
	token := sessions.Token(t, authtest.Principal(4711, user.RoleUser))

	t.Run("bearer token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)

		var body struct {
			EmployeeID int64  `json:"employeeID"`
			Token      string `json:"token"`
		}
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, int64(4711), body.EmployeeID)
		assert.Equal(t, token, body.Token)
	})

	t.Run("session cookie", func(t *testing.T) {
		cookies := []*http.Cookie{{Name: cfg.CookieName, Value: token}}
		rec := httptest.PerformRequestWithCookies(t, router, http.MethodGet, "/me", nil, cookies, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
	})

	t.Run("tampered token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token+"x")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
	})

	t.Run("expired token", func(t *testing.T) {
		expired := sessions.ExpiredToken(t, authtest.Principal(4711, user.RoleUser))
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, expired)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
	})
}

func TestRequireRight(t *testing.T) {
	router, sessions, _ := newAuthRouter(t)

	t.Run("admin passes", func(t *testing.T) {
		token := sessions.Token(t, authtest.Principal(1, user.RoleAdmin))
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/users", nil, token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		token := sessions.Token(t, authtest.Principal(2, user.RoleUser))
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/users", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "manageUsers required")
	})
}
