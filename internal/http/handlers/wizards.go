package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/booking"
	"rentalweb/internal/http/middleware"
)

type startWizardRequest struct {
	VehicleID string `json:"vehicleId"`
}

// POST /api/wizards
func (h Handlers) StartWizard(c *gin.Context) {
	var req startWizardRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	view, err := h.wizards(c).Start(c.Request.Context(), middleware.GetSession(c), req.VehicleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GET /api/wizards/:id
func (h Handlers) GetWizard(c *gin.Context) {
	view, err := h.wizards(c).Get(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/wizards/:id
func (h Handlers) AbandonWizard(c *gin.Context) {
	if err := h.wizards(c).Abandon(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/wizards/:id/dates
func (h Handlers) SubmitDates(c *gin.Context) {
	var in booking.DatesInput
	if !BindJSONOrError(c, &in) {
		return
	}
	view, err := h.wizards(c).SubmitDates(c.Request.Context(), middleware.GetSession(c), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/wizards/:id/customer
func (h Handlers) SubmitCustomer(c *gin.Context) {
	var in booking.CustomerInput
	if !BindJSONOrError(c, &in) {
		return
	}
	view, err := h.wizards(c).SubmitCustomer(c.Request.Context(), middleware.GetSession(c), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/wizards/:id/summary
func (h Handlers) ConfirmSummary(c *gin.Context) {
	view, err := h.wizards(c).ConfirmSummary(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/wizards/:id/payment
func (h Handlers) SubmitPayment(c *gin.Context) {
	var in booking.PaymentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	view, err := h.wizards(c).SubmitPayment(c.Request.Context(), middleware.GetSession(c), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/wizards/:id/back
func (h Handlers) WizardBack(c *gin.Context) {
	view, err := h.wizards(c).Back(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/wizards/:id/goto/:step
func (h Handlers) WizardGoTo(c *gin.Context) {
	view, err := h.wizards(c).GoTo(c.Request.Context(), middleware.GetSession(c), c.Param("id"), c.Param("step"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/wizards/:id/refresh-rate
func (h Handlers) RefreshRate(c *gin.Context) {
	view, err := h.wizards(c).RefreshRate(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
