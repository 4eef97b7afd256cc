package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apimgr/community/src/metrics"
)

// Metrics records request counts and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPActiveRequests.Inc()

		c.Next()

		metrics.HTTPActiveRequests.Dec()

		// Use the route template, not the raw path, to bound cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
