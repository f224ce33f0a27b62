package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/domain/models"
	"rentalweb/internal/http/middleware"
)

// POST /api/auth/login
func (h Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.auth(c).Login(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/auth/register
func (h Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.auth(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/auth/session
func (h Handlers) CurrentSession(c *gin.Context) {
	sess := middleware.GetSession(c)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": !sess.Anonymous(),
		"session":       sess,
	})
}
