package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/lagoon/bookings/internal/notify"
	"github.com/lagoon/bookings/internal/repo/postgres"
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

	dispatcher := notify.NewDispatcher(bookingRepo,
		notify.NewMailerSendChannel(cfg.Notify),
		notify.NewSMTPChannel(cfg.Notify),
		notify.NewChatChannel(cfg.Notify),
	)

	sub, err := eventBus.QueueSubscribe(events.BookingCreated, cfg.NATS.Queue, func(msg *events.Message) {
		var ev events.BookingCreatedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("failed to decode booking created event", "error", err)
			return
		}
		if err := dispatcher.Dispatch(context.Background(), &ev); err != nil {
			logger.Error("notification dispatch failed", "error", err, "booking_id", ev.BookingID)
		}
	})
	if err != nil {
		logger.Error("failed to subscribe to booking events", "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	// Health endpoint only; all work happens on the subscription.
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("notifier"))
	r.Use(mw.Logging)
	r.Use(mw.Health)

	go func() {
		logger.Info("starting notifier", "port", "8086")
		if err := http.ListenAndServe(":8086", r); err != nil {
			logger.Error("notifier server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down notifier...")
}
