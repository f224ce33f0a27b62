package handlers

import (
	"github.com/gin-gonic/gin"

	"rentalweb/internal/http/middleware"
	"rentalweb/internal/services"
)

// Handlers holds the services the routes call. Each request works on a copy
// carrying its own request ID.
type Handlers struct {
	Wizards  services.WizardService
	Auth     services.AuthService
	Vehicles services.VehicleService
	Bookings services.BookingService
	Users    services.UserService
	Reports  services.ReportsService
	Docs     services.DocsService
	Health   HealthChecker
}

func (h Handlers) wizards(c *gin.Context) services.WizardService {
	svc := h.Wizards
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h Handlers) auth(c *gin.Context) services.AuthService {
	svc := h.Auth
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h Handlers) vehicles(c *gin.Context) services.VehicleService {
	svc := h.Vehicles
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h Handlers) bookings(c *gin.Context) services.BookingService {
	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h Handlers) users(c *gin.Context) services.UserService {
	svc := h.Users
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h Handlers) reports(c *gin.Context) services.ReportsService {
	svc := h.Reports
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h Handlers) docs(c *gin.Context) services.DocsService {
	svc := h.Docs
	svc.RequestID = middleware.GetRequestID(c)
	svc.Wizards = h.wizards(c)
	return svc
}
