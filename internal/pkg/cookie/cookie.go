package cookie

import (
	"net/http"
	"time"

	"tool-rental/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetSessionCookie(c *gin.Context, cfg config.SessionConfig, token string, ttl time.Duration) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		cfg.CookieName,
		token,
		int(ttl.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

func ClearSessionCookie(c *gin.Context, cfg config.SessionConfig) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		cfg.CookieName,
		"",
		-1,
		"/",
		cfg.Domain,
		cfg.Secure,
		true,
	)
}

func GetSessionToken(c *gin.Context, cfg config.SessionConfig) string {
	token, _ := c.Cookie(cfg.CookieName)
	return token
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
