package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/http/middleware"
)

func vehicleFilterFromQuery(c *gin.Context) (models.VehicleFilter, error) {
	f := models.VehicleFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
		Location: strings.TrimSpace(c.Query("location")),
	}
	if raw := strings.TrimSpace(c.Query("available")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.ValidationError{Field: "available", Msg: "must be true or false"}
		}
		f.Available = &b
	}
	var err error
	if f.Page, err = intQuery(c, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = intQuery(c, "limit"); err != nil {
		return f, err
	}
	return f, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.ValidationError{Field: key, Msg: "must be a positive number"}
	}
	return n, nil
}

// GET /api/vehicles and GET /api/admin/vehicles
func (h Handlers) ListVehicles(c *gin.Context) {
	f, err := vehicleFilterFromQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	list, err := h.vehicles(c).List(c.Request.Context(), middleware.GetSession(c), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/vehicles/:id
func (h Handlers) GetVehicle(c *gin.Context) {
	v, err := h.vehicles(c).Get(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/admin/vehicles
func (h Handlers) CreateVehicle(c *gin.Context) {
	var p models.VehiclePayload
	if !BindJSONOrError(c, &p) {
		return
	}
	v, err := h.vehicles(c).Create(c.Request.Context(), middleware.GetSession(c), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// PUT /api/admin/vehicles/:id
func (h Handlers) UpdateVehicle(c *gin.Context) {
	var p models.VehiclePayload
	if !BindJSONOrError(c, &p) {
		return
	}
	v, err := h.vehicles(c).Update(c.Request.Context(), middleware.GetSession(c), c.Param("id"), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

// PATCH /api/admin/vehicles/:id/availability
func (h Handlers) SetVehicleAvailability(c *gin.Context) {
	var req availabilityRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Available == nil {
		RespondDomainError(c, domain.ValidationError{Field: "available", Msg: "is required"})
		return
	}
	v, err := h.vehicles(c).SetAvailability(c.Request.Context(), middleware.GetSession(c), c.Param("id"), *req.Available)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DELETE /api/admin/vehicles/:id
func (h Handlers) DeleteVehicle(c *gin.Context) {
	if err := h.vehicles(c).Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
