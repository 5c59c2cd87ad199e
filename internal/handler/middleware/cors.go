package middleware

import (
	"log/slog"
	"slices"

	"tool-rental/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware builds the CORS handler from config. The kiosk session
// header is always allowed, and the throttle and download headers are always
// exposed, since the frontend depends on them.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeaders(cfg.AllowHeaders, SessionHeader),
		ExposeHeaders:    withHeaders(cfg.ExposeHeaders, "Retry-After", "Content-Disposition"),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("cors configured",
		"origins", corsCfg.AllowOrigins,
		"credentials", corsCfg.AllowCredentials,
		"expose", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

func withHeaders(headers []string, required ...string) []string {
	out := slices.Clone(headers)
	for _, h := range required {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
