package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/clock"
	intconfig "rentalweb/internal/config"
	router "rentalweb/internal/http"
	h "rentalweb/internal/http/handlers"
	"rentalweb/internal/metrics"
	"rentalweb/internal/repositories"
	"rentalweb/internal/services"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := apiclient.New(env.APIBaseURL,
		apiclient.WithTimeout(env.APITimeout),
		apiclient.WithObserver(metrics.ObserveAPICall),
	)
	if err != nil {
		log.Fatalf("rental api client: %v", err)
	}

	clk := clock.NewSystem()
	lockTTL := env.WizardLockTTL()
	var (
		store  repositories.WizardRepository
		locker repositories.Locker
		health h.HealthChecker
	)
	if env.UseRedis() {
		rdb, err := intconfig.ConnectRedis(ctx, env)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer rdb.Close()
		store = repositories.RedisWizardRepository{Client: rdb, TTL: env.WizardTTL}
		locker = repositories.RedisLocker{Client: rdb, TTL: lockTTL}
		health = intconfig.RedisHealth{Client: rdb}
	} else {
		mem := repositories.NewMemoryWizardRepository(env.WizardTTL, clk)
		go mem.RunSweeper(ctx, time.Minute)
		store = mem
		locker = repositories.NewMemoryLocker(lockTTL, clk)
		log.Printf("REDIS_ADDR not set, keeping wizards in memory")
	}

	wizards := services.WizardService{
		Store:        store,
		Locker:       locker,
		Vehicles:     client,
		Bookings:     client,
		Clock:        clk,
		PaymentDelay: env.PaymentDelay,
		Currency:     env.Currency,
	}
	hs := h.Handlers{
		Wizards: wizards,
		Auth: services.AuthService{
			Accounts:          client,
			Secret:            []byte(env.JWTSecret),
			TTL:               env.SessionTTL,
			AdminEmail:        env.AdminEmail,
			AdminPasswordHash: env.AdminPasswordHash,
			Clock:             clk,
		},
		Vehicles: services.VehicleService{API: client},
		Bookings: services.BookingService{API: client},
		Users:    services.UserService{API: client},
		Reports:  services.ReportsService{Bookings: client, Vehicles: client, Currency: env.Currency},
		Docs:     services.DocsService{Clock: clk},
		Health:   health,
	}

	r := router.NewRouter(env, hs)

	// a payment request waits for the simulated delay plus the booking call
	writeTimeout := 20 * time.Second
	if need := env.PaymentDelay + env.APITimeout + 5*time.Second; need > writeTimeout {
		writeTimeout = need
	}
	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s (rental api %s)", env.AppAddr, env.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped.")
}
