package payments

import (
	"context"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/pkg/events"
	"github.com/lagoon/bookings/pkg/logger"
)

// Bookings is the slice of the booking service the orchestrator needs.
type Bookings interface {
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	SetPaymentLink(ctx context.Context, id int64, url string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
}

type Orchestrator struct {
	bookings Bookings
	provider PaymentProvider
}

func NewOrchestrator(bookings Bookings, provider PaymentProvider) *Orchestrator {
	return &Orchestrator{bookings: bookings, provider: provider}
}

// HandleBookingCreated reacts to a booking-creation event. Trigger delivery
// is at-least-once, so the current document state is the idempotence guard:
// anything past pending, or already linked, is skipped without touching the
// provider.
func (o *Orchestrator) HandleBookingCreated(ctx context.Context, ev *events.BookingCreatedEvent) error {
	booking, err := o.bookings.Get(ctx, ev.BookingID)
	if err != nil {
		return err
	}

	if booking.Status != domain.BookingPending || booking.PaymentLink != "" {
		logger.DebugContext(ctx, "skipping payment link creation", "booking_id", booking.ID, "status", booking.Status)
		return nil
	}

	if !o.provider.Configured() {
		// Payment is collected offline; the booking still advances so the
		// dashboard shows it awaiting payment follow-up.
		logger.InfoContext(ctx, "payment provider not configured, manual follow-up", "booking_id", booking.ID)
		_, err := o.bookings.UpdateStatus(ctx, booking.ID, domain.BookingPendingPayment)
		return err
	}

	link, err := o.provider.CreatePaymentLink(ctx, &LinkRequest{
		BookingID:     booking.ID,
		CustomerName:  booking.CustomerName,
		CustomerPhone: booking.CustomerPhone,
		ServiceName:   booking.ServiceName,
		AmountCents:   booking.TotalCents,
	})
	if err != nil {
		intErr := &domain.IntegrationError{Provider: "stripe", Err: err}
		logger.ErrorContext(ctx, "failed to create payment link", "error", intErr, "booking_id", booking.ID)
		// Left in error explicitly for manual operator intervention,
		// not reverted and not retried.
		if _, uerr := o.bookings.UpdateStatus(ctx, booking.ID, domain.BookingError); uerr != nil {
			logger.ErrorContext(ctx, "failed to mark booking as errored", "error", uerr, "booking_id", booking.ID)
			return uerr
		}
		return nil
	}

	if _, err := o.bookings.SetPaymentLink(ctx, booking.ID, link); err != nil {
		logger.ErrorContext(ctx, "failed to store payment link", "error", err, "booking_id", booking.ID)
		return err
	}

	logger.InfoContext(ctx, "payment link created", "booking_id", booking.ID)
	return nil
}
