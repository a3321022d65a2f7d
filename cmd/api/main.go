package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/lagoon/bookings/internal/http/handlers"
	imw "github.com/lagoon/bookings/internal/http/middleware"
	"github.com/lagoon/bookings/internal/repo/postgres"
	"github.com/lagoon/bookings/internal/service"
	"github.com/lagoon/bookings/pkg/auth"
	"github.com/lagoon/bookings/pkg/config"
	"github.com/lagoon/bookings/pkg/database"
	"github.com/lagoon/bookings/pkg/events"
	"github.com/lagoon/bookings/pkg/logger"
	mw "github.com/lagoon/bookings/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	bookingRepo := postgres.NewBookingRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)

	bookingService := service.NewBookingService(bookingRepo, eventBus)
	authService := service.NewAuthService(adminRepo, cfg)

	if err := authService.SeedAdmin(ctx); err != nil {
		logger.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	h := handlers.New(bookingService, authService, cfg)

	formLimiter := imw.NewRateLimiter(rdb, imw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		Prefix:   "booking_form",
	})

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.CORS())
	r.Use(mw.Health)

	r.Get("/services", h.ListServices)
	r.With(formLimiter.Middleware()).Post("/bookings", h.CreateBooking)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	secret := cfg.Auth.JWTSecret
	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(imw.RequirePermission(secret, auth.PermBookingsRead))
			r.Get("/bookings", h.ListBookings)
			r.Get("/bookings/stream", h.StreamBookings)
			r.Get("/bookings/{id}", h.GetBooking)
		})
		r.Group(func(r chi.Router) {
			r.Use(imw.RequirePermission(secret, auth.PermBookingsWrite))
			r.Patch("/bookings/{id}/status", h.UpdateBookingStatus)
			r.Post("/bookings/confirm", h.ConfirmBooking)
		})
		r.Group(func(r chi.Router) {
			r.Use(imw.RequirePermission(secret, auth.PermStatsRead))
			r.Get("/stats", h.GetStats)
		})
		r.Group(func(r chi.Router) {
			r.Use(imw.RequirePermission(secret, auth.PermAdminsManage))
			r.Patch("/admins/{id}/role", h.UpdateAdminRole)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // SSE streams on /admin/bookings/stream stay open
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down api...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("api shutdown error", "error", err)
		}
	}()

	logger.Info("starting api", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("api server error", "error", err)
		os.Exit(1)
	}
}
