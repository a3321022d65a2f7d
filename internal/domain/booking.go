package domain

import (
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPending        BookingStatus = "pending"
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCancelled      BookingStatus = "cancelled"
	BookingError          BookingStatus = "error"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingPendingPayment, BookingConfirmed, BookingCancelled, BookingError:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

var validNext = map[BookingStatus]map[BookingStatus]bool{
	BookingPending: {
		BookingPendingPayment: true,
		BookingConfirmed:      true,
		BookingCancelled:      true,
		BookingError:          true,
	},
	BookingPendingPayment: {
		BookingConfirmed: true,
		BookingCancelled: true,
	},
	BookingConfirmed: {
		BookingCancelled: true,
	},
	BookingError: {
		BookingPendingPayment: true,
		BookingConfirmed:      true,
		BookingCancelled:      true,
	},
	BookingCancelled: {},
}

// CanTransition reports whether status may move from one value to another.
// Re-setting the current status is allowed so duplicate webhook deliveries
// stay a no-op.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	return validNext[from][to]
}

// BookingMode distinguishes single-date services from rentals with a
// start/end date pair. Exactly one scheduling mode is ever populated.
type BookingMode string

const (
	ModeSingle BookingMode = "single"
	ModeRental BookingMode = "rental"
)

type Booking struct {
	ID              int64         `json:"id"`
	Status          BookingStatus `json:"status"`
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   string        `json:"customer_phone"`
	CustomerEmail   string        `json:"customer_email,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	ServiceID       string        `json:"service_id"`
	ServiceName     string        `json:"service_name"`
	UnitPriceCents  int64         `json:"unit_price_cents"`
	Mode            BookingMode   `json:"mode"`
	BookingDate     *time.Time    `json:"booking_date,omitempty"`
	RentalStart     *time.Time    `json:"rental_start,omitempty"`
	RentalEnd       *time.Time    `json:"rental_end,omitempty"`
	RentalDays      int           `json:"rental_days,omitempty"`
	TotalCents      int64         `json:"total_cents"`
	PaymentLink     string        `json:"payment_link,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	OwnerNotifiedAt *time.Time    `json:"owner_notified_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type BookingRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Notes         string `json:"notes,omitempty"`
	ServiceID     string `json:"service_id"`
	BookingDate   string `json:"booking_date,omitempty"`
	RentalStart   string `json:"rental_start,omitempty"`
	RentalEnd     string `json:"rental_end,omitempty"`
}

// RentalDays counts days inclusive of both ends: a Mar 1 to Mar 3 rental is
// three days. A reversed or zero-length pair still counts the start day.
func RentalDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}
