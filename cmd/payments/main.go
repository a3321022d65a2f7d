package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/lagoon/bookings/internal/payments"
	"github.com/lagoon/bookings/internal/repo/postgres"
	"github.com/lagoon/bookings/internal/service"
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

	bookingRepo := postgres.NewBookingRepository(pool)
	bookingService := service.NewBookingService(bookingRepo, eventBus)

	provider := payments.NewStripeProvider(cfg.Stripe)
	orchestrator := payments.NewOrchestrator(bookingService, provider)
	webhookHandler := payments.NewWebhookHandler(bookingService, cfg.Stripe.WebhookSecret)

	sub, err := eventBus.QueueSubscribe(events.BookingCreated, cfg.NATS.Queue+"-payments", func(msg *events.Message) {
		var ev events.BookingCreatedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("failed to decode booking created event", "error", err)
			return
		}
		if err := orchestrator.HandleBookingCreated(context.Background(), &ev); err != nil {
			logger.Error("payment orchestration failed", "error", err, "booking_id", ev.BookingID)
		}
	})
	if err != nil {
		logger.Error("failed to subscribe to booking events", "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("payments"))
	r.Use(mw.Logging)
	r.Use(mw.Health)

	r.Post("/webhook", webhookHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":8085",
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down payments service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("payments service shutdown error", "error", err)
		}
	}()

	logger.Info("starting payments service", "port", "8085")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("payments service error", "error", err)
		os.Exit(1)
	}
}
