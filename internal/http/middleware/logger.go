package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/metrics"
)

// Logger prints one line per request and counts it by route template.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		reqID := GetRequestID(c)
		status := c.Writer.Status()
		metrics.HTTPRequest(c.Request.Method, c.FullPath(), status)

		log.Printf("[HTTP] request_id=%s method=%s path=%s status=%d latency_ms=%.3f ip=%s",
			reqID,
			c.Request.Method,
			c.Request.URL.Path,
			status,
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
