package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/http/middleware"
)

// GET /api/admin/users
func (h Handlers) ListUsers(c *gin.Context) {
	users, err := h.users(c).List(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
