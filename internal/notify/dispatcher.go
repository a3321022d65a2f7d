package notify

import (
	"context"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/pkg/events"
	"github.com/lagoon/bookings/pkg/logger"
)

// BookingMarker is the slice of the booking repository the dispatcher needs.
type BookingMarker interface {
	MarkOwnerNotified(ctx context.Context, id int64) (*domain.Booking, error)
}

type Dispatcher struct {
	channels []Channel
	bookings BookingMarker
}

func NewDispatcher(bookings BookingMarker, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, bookings: bookings}
}

// Dispatch attempts each channel in order and stops at the first success,
// then stamps owner_notified_at. When no channel is configured or every
// configured channel fails, the booking is left unmarked and the error is
// returned so the event bus redelivery policy is the only retry. Duplicate
// deliveries may duplicate outbound sends; that is accepted.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *events.BookingCreatedEvent) error {
	subject, body := FormatBookingMessage(ev)

	var lastErr error
	for _, ch := range d.channels {
		outcome, err := ch.Send(ctx, subject, body)
		switch outcome {
		case OutcomeSent:
			logger.InfoContext(ctx, "owner notified", "channel", ch.Name(), "booking_id", ev.BookingID)
			if _, err := d.bookings.MarkOwnerNotified(ctx, ev.BookingID); err != nil {
				logger.ErrorContext(ctx, "failed to stamp owner_notified_at", "error", err, "booking_id", ev.BookingID)
				return err
			}
			return nil
		case OutcomeNotConfigured:
			logger.DebugContext(ctx, "notification channel not configured", "channel", ch.Name())
		case OutcomeFailed:
			lastErr = &domain.IntegrationError{Provider: ch.Name(), Err: err}
			logger.ErrorContext(ctx, "notification channel failed", "channel", ch.Name(), "error", err, "booking_id", ev.BookingID)
		}
	}

	if lastErr == nil {
		lastErr = &domain.IntegrationError{Provider: "notify", Err: errNoChannel}
	}
	logger.WarnContext(ctx, "owner not notified", "booking_id", ev.BookingID, "error", lastErr)
	return lastErr
}

var errNoChannel = errNotConfigured("no notification channel configured")

type errNotConfigured string

func (e errNotConfigured) Error() string { return string(e) }
