package middleware

import (
	"context"
	"log/slog"
	"strings"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/cookie"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const (
	SessionHeader = "X-Session-Token"

	ctxPrincipalKey = "principal"
	ctxTokenKey     = "session_token"
)

var (
	ErrTokenRequired      = errs.Mark(errs.New("session token required"), errs.ErrUnauthorized)
	ErrInsufficientRights = errs.Mark(errs.New("insufficient rights"), errs.ErrForbidden)
)

type TokenParser interface {
	Parse(ctx context.Context, token string) (*session.Claims, error)
}

type AuthMiddleware struct {
	parser TokenParser
	cfg    config.SessionConfig
}

func NewAuthMiddleware(parser TokenParser, cfg config.SessionConfig) *AuthMiddleware {
	return &AuthMiddleware{
		parser: parser,
		cfg:    cfg,
	}
}

// SessionToken looks in the session header, then the bearer header, then the cookie.
func SessionToken(c *gin.Context, cfg config.SessionConfig) string {
	if token := strings.TrimSpace(c.GetHeader(SessionHeader)); token != "" {
		return token
	}
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}
	return cookie.GetSessionToken(c, cfg)
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, m.cfg)
		if token == "" {
			httperr.Abort(c, ErrTokenRequired)
			return
		}

		claims, err := m.parser.Parse(c.Request.Context(), token)
		if err != nil {
			slog.Warn("session validation failed", "error", err.Error())
			httperr.Abort(c, err)
			return
		}

		c.Set(ctxPrincipalKey, claims.Principal)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

// RequireRight must run after RequireAuth.
func (m *AuthMiddleware) RequireRight(right user.Right) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			httperr.Abort(c, ErrTokenRequired)
			return
		}
		if !p.Can(right) {
			httperr.Abort(c, errs.Wrapf(ErrInsufficientRights, "%s required", right))
			return
		}
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// SetPrincipal stores p as the authenticated identity of the request.
func SetPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(ctxPrincipalKey, p)
}

func GetSessionToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
