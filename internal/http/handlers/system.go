package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheck reports liveness and, when configured, the wizard store.
func (h Handlers) HealthCheck(c *gin.Context) {
	body := gin.H{"status": "ok", "message": "rentalweb is running"}
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Health.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["store"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["store"] = "ok"
	}
	c.JSON(http.StatusOK, body)
}
