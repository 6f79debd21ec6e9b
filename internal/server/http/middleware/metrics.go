package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/paywebhook/internal/metrics"
)

// HTTPMetrics counts requests by route template. Unmatched routes are grouped as "unmatched".
func HTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status())
	}
}
