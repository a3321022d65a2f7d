// Package payments generates hosted payment links for new bookings and
// reconciles confirmation through the provider's webhook.
package payments

import "context"

type LinkRequest struct {
	BookingID     int64
	CustomerName  string
	CustomerPhone string
	ServiceName   string
	AmountCents   int64
}

// PaymentProvider is the narrow adapter each real provider implements:
// exactly the one operation this system needs.
type PaymentProvider interface {
	Configured() bool
	CreatePaymentLink(ctx context.Context, req *LinkRequest) (string, error)
}
