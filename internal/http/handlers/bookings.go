package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/http/middleware"
)

// GET /api/admin/bookings
func (h Handlers) ListBookings(c *gin.Context) {
	f := models.BookingFilter{
		Status:    models.BookingStatus(c.Query("status")),
		VehicleID: strings.TrimSpace(c.Query("vehicleId")),
	}
	var err error
	if f.Page, err = intQuery(c, "page"); err != nil {
		RespondDomainError(c, err)
		return
	}
	if f.PageSize, err = intQuery(c, "limit"); err != nil {
		RespondDomainError(c, err)
		return
	}
	list, err := h.bookings(c).List(c.Request.Context(), middleware.GetSession(c), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/bookings/:id
func (h Handlers) GetBooking(c *gin.Context) {
	b, err := h.bookings(c).Get(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type statusRequest struct {
	Status models.BookingStatus `json:"status"`
}

// PATCH /api/admin/bookings/:id/status
func (h Handlers) UpdateBookingStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(string(req.Status)) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "status", Msg: "is required"})
		return
	}
	b, err := h.bookings(c).UpdateStatus(c.Request.Context(), middleware.GetSession(c), c.Param("id"), req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
