package middleware

import (
	"log/slog"
	"net/http"

	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the errors collected on the context as httperr bodies.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) == 0 {
			return
		}

		// the most recent public error wins
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}

		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}

		slog.Error("unhandled request error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", GetRequestID(c),
			"error", c.Errors.Last().Err)
		c.JSON(http.StatusInternalServerError, internalError())
	}
}

func internalError() httperr.Response {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Kind = string(errs.KindInternal)
	resp.Error.Message = "Internal server error"
	return resp
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
			}
		}()
		c.Next()
	}
}
