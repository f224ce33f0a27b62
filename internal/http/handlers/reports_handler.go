package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/http/middleware"
)

// GET /api/admin/analytics
func (h Handlers) GetAnalytics(c *gin.Context) {
	summary, err := h.reports(c).Summary(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
