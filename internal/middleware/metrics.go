package middleware

import (
	"time"

	"rewards_engine/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RequestMetrics records every request against its route template, or "unmatched" for 404s.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
