package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "rentalweb/internal/config"
	"rentalweb/internal/domain"
	h "rentalweb/internal/http/handlers"
	"rentalweb/internal/http/middleware"
	"rentalweb/internal/metrics"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(env intconfig.Env, hs h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		h.RespondError(c, stdhttp.StatusNotFound, "route not found", nil)
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Session(hs.Auth))
	{
		api.GET("/health", hs.HealthCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", hs.Login)
		auth.POST("/register", hs.Register)
		auth.GET("/session", hs.CurrentSession)

		// Catalogue
		vehicles := api.Group("/vehicles")
		vehicles.GET("", hs.ListVehicles)
		vehicles.GET("/:id", hs.GetVehicle)

		// Booking wizard
		wizards := api.Group("/wizards")
		wizards.POST("", hs.StartWizard)
		wizards.GET("/:id", hs.GetWizard)
		wizards.DELETE("/:id", hs.AbandonWizard)
		wizards.POST("/:id/dates", hs.SubmitDates)
		wizards.POST("/:id/customer", hs.SubmitCustomer)
		wizards.POST("/:id/summary", hs.ConfirmSummary)
		wizards.POST("/:id/payment", hs.SubmitPayment)
		wizards.POST("/:id/back", hs.WizardBack)
		wizards.POST("/:id/goto/:step", hs.WizardGoTo)
		wizards.POST("/:id/refresh-rate", hs.RefreshRate)
		wizards.GET("/:id/voucher", hs.GetVoucherPDF)

		// Admin dashboards
		admin := api.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
		mountAdmin(admin, hs)
	}

	return r
}

func mountAdmin(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("/vehicles", hs.ListVehicles)
	g.POST("/vehicles", hs.CreateVehicle)
	g.GET("/vehicles/:id", hs.GetVehicle)
	g.PUT("/vehicles/:id", hs.UpdateVehicle)
	g.DELETE("/vehicles/:id", hs.DeleteVehicle)
	g.PATCH("/vehicles/:id/availability", hs.SetVehicleAvailability)

	g.GET("/bookings", hs.ListBookings)
	g.GET("/bookings/:id", hs.GetBooking)
	g.PATCH("/bookings/:id/status", hs.UpdateBookingStatus)

	g.GET("/users", hs.ListUsers)
	g.GET("/analytics", hs.GetAnalytics)
}
