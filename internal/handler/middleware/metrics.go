package middleware

import (
	"strconv"
	"time"

	"tool-rental/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request latency by route template, so path ids do not
// explode the label set.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
