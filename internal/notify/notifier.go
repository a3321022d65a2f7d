// Package notify alerts the operator of new bookings over whichever
// outbound channel is configured, with ordered multi-channel fallback.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lagoon/bookings/pkg/events"
)

// Outcome is an explicit result variant so the dispatcher can branch on
// "not configured" versus a real send fault without exception-style control
// flow.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeNotConfigured
	OutcomeFailed
)

type Channel interface {
	Name() string
	Send(ctx context.Context, subject, body string) (Outcome, error)
}

// FormatBookingMessage renders the one human-readable message every channel
// delivers for a new booking.
func FormatBookingMessage(ev *events.BookingCreatedEvent) (subject, body string) {
	subject = fmt.Sprintf("New booking #%d: %s", ev.BookingID, ev.ServiceName)

	var b strings.Builder
	fmt.Fprintf(&b, "Booking #%d\n", ev.BookingID)
	fmt.Fprintf(&b, "Service: %s\n", ev.ServiceName)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", ev.CustomerName, ev.CustomerPhone)
	if ev.CustomerEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", ev.CustomerEmail)
	}
	fmt.Fprintf(&b, "Date: %s\n", FormatBookingDate(ev))
	if ev.TotalCents > 0 {
		fmt.Fprintf(&b, "Total: %.2f\n", float64(ev.TotalCents)/100)
	}
	if ev.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", ev.Notes)
	}
	return subject, b.String()
}

func FormatBookingDate(ev *events.BookingCreatedEvent) string {
	const layout = "2006-01-02"
	if ev.RentalStart != nil && ev.RentalEnd != nil {
		return fmt.Sprintf("%s to %s", ev.RentalStart.Format(layout), ev.RentalEnd.Format(layout))
	}
	if ev.BookingDate != nil {
		return ev.BookingDate.Format(layout)
	}
	return time.Now().Format(layout)
}
