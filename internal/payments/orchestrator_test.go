package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/pkg/events"
)

type fakeBookings struct {
	bookings map[int64]*domain.Booking

	statusUpdates []domain.BookingStatus
	linkSets      []string
	updateErr     error
}

func newFakeBookings(b *domain.Booking) *fakeBookings {
	f := &fakeBookings{bookings: make(map[int64]*domain.Booking)}
	if b != nil {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookings) Get(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (f *fakeBookings) SetPaymentLink(_ context.Context, id int64, url string) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.linkSets = append(f.linkSets, url)
	b.PaymentLink = url
	b.Status = domain.BookingPendingPayment
	out := *b
	return &out, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !domain.CanTransition(b.Status, status) {
		return nil, domain.ErrInvalidTransition
	}
	f.statusUpdates = append(f.statusUpdates, status)
	b.Status = status
	out := *b
	return &out, nil
}

type fakeProvider struct {
	configured bool
	link       string
	err        error
	calls      int
}

func (p *fakeProvider) Configured() bool { return p.configured }

func (p *fakeProvider) CreatePaymentLink(_ context.Context, req *LinkRequest) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.link, nil
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            7,
		Status:        domain.BookingPending,
		CustomerName:  "Jane Doe",
		CustomerPhone: "+23012345",
		ServiceName:   "Car Rental",
		TotalCents:    360000,
	}
}

func createdEvent(id int64) *events.BookingCreatedEvent {
	return &events.BookingCreatedEvent{BookingID: id}
}

func TestHandleBookingCreatedSuccess(t *testing.T) {
	bookings := newFakeBookings(pendingBooking())
	provider := &fakeProvider{configured: true, link: "https://checkout.test/cs_123"}

	o := NewOrchestrator(bookings, provider)
	if err := o.HandleBookingCreated(context.Background(), createdEvent(7)); err != nil {
		t.Fatalf("HandleBookingCreated returned error: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
	if len(bookings.linkSets) != 1 || bookings.linkSets[0] != provider.link {
		t.Errorf("link sets = %v, want [%s]", bookings.linkSets, provider.link)
	}
	if got := bookings.bookings[7].Status; got != domain.BookingPendingPayment {
		t.Errorf("status = %s, want pending_payment", got)
	}
}

func TestHandleBookingCreatedAlreadyLinked(t *testing.T) {
	b := pendingBooking()
	b.PaymentLink = "https://checkout.test/cs_existing"
	bookings := newFakeBookings(b)
	provider := &fakeProvider{configured: true, link: "https://checkout.test/cs_new"}

	o := NewOrchestrator(bookings, provider)
	if err := o.HandleBookingCreated(context.Background(), createdEvent(7)); err != nil {
		t.Fatalf("HandleBookingCreated returned error: %v", err)
	}

	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0 for redelivered event", provider.calls)
	}
	if got := bookings.bookings[7].PaymentLink; got != "https://checkout.test/cs_existing" {
		t.Errorf("payment link = %s, want original preserved", got)
	}
}

func TestHandleBookingCreatedPastPending(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.BookingPendingPayment,
		domain.BookingConfirmed,
		domain.BookingCancelled,
		domain.BookingError,
	} {
		t.Run(string(status), func(t *testing.T) {
			b := pendingBooking()
			b.Status = status
			bookings := newFakeBookings(b)
			provider := &fakeProvider{configured: true, link: "https://checkout.test/cs_123"}

			o := NewOrchestrator(bookings, provider)
			if err := o.HandleBookingCreated(context.Background(), createdEvent(7)); err != nil {
				t.Fatalf("HandleBookingCreated returned error: %v", err)
			}
			if provider.calls != 0 {
				t.Errorf("provider calls = %d, want 0", provider.calls)
			}
			if got := bookings.bookings[7].Status; got != status {
				t.Errorf("status = %s, want untouched %s", got, status)
			}
		})
	}
}

func TestHandleBookingCreatedUnconfiguredProvider(t *testing.T) {
	bookings := newFakeBookings(pendingBooking())
	provider := &fakeProvider{configured: false}

	o := NewOrchestrator(bookings, provider)
	if err := o.HandleBookingCreated(context.Background(), createdEvent(7)); err != nil {
		t.Fatalf("HandleBookingCreated returned error: %v", err)
	}

	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0 when unconfigured", provider.calls)
	}
	if got := bookings.bookings[7].Status; got != domain.BookingPendingPayment {
		t.Errorf("status = %s, want pending_payment for manual follow-up", got)
	}
	if got := bookings.bookings[7].PaymentLink; got != "" {
		t.Errorf("payment link = %s, want empty", got)
	}
}

func TestHandleBookingCreatedProviderError(t *testing.T) {
	bookings := newFakeBookings(pendingBooking())
	provider := &fakeProvider{configured: true, err: errors.New("api_connection_error")}

	o := NewOrchestrator(bookings, provider)
	if err := o.HandleBookingCreated(context.Background(), createdEvent(7)); err != nil {
		t.Fatalf("provider failure should not request redelivery, got: %v", err)
	}

	if got := bookings.bookings[7].Status; got != domain.BookingError {
		t.Errorf("status = %s, want error for operator follow-up", got)
	}
}

func TestHandleBookingCreatedUnknownBooking(t *testing.T) {
	bookings := newFakeBookings(nil)
	provider := &fakeProvider{configured: true}

	o := NewOrchestrator(bookings, provider)
	if err := o.HandleBookingCreated(context.Background(), createdEvent(404)); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
