package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/domain"
	"rentalweb/internal/http/middleware"
	"rentalweb/internal/utils"
)

func respondError(c *gin.Context, status int, code, message string, fields any) {
	if code == "" {
		code = http.StatusText(status)
	}
	payload := gin.H{
		"error":   message,
		"code":    code,
		"message": message,
	}
	if fields != nil {
		payload["fields"] = fields
	}
	if reqID := middleware.GetRequestID(c); reqID != "" {
		payload["request_id"] = reqID
	}
	c.AbortWithStatusJSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. Validation
// failures carry per-field messages; submission failures carry the message
// the rental API gave.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		fields, _ := domain.AsFieldErrors(err)
		respondError(c, http.StatusUnprocessableEntity, "validation_error", "some fields are invalid", fields)
	case domain.IsSubmission(err):
		respondError(c, http.StatusBadGateway, "submission_failed", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.Is(err, context.Canceled):
		// client went away
		c.Abort()
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
