package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/pkg/events"
)

type fakeChannel struct {
	name    string
	outcome Outcome
	err     error
	sends   int
	subject string
	body    string
}

func (c *fakeChannel) Name() string { return c.name }

func (c *fakeChannel) Send(_ context.Context, subject, body string) (Outcome, error) {
	c.sends++
	c.subject = subject
	c.body = body
	return c.outcome, c.err
}

type fakeMarker struct {
	marked []int64
	err    error
}

func (m *fakeMarker) MarkOwnerNotified(_ context.Context, id int64) (*domain.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.marked = append(m.marked, id)
	now := time.Now()
	return &domain.Booking{ID: id, OwnerNotifiedAt: &now}, nil
}

func testEvent() *events.BookingCreatedEvent {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &events.BookingCreatedEvent{
		BookingID:     42,
		CustomerName:  "Jane Doe",
		CustomerPhone: "+23012345",
		ServiceName:   "South Island Tour",
		BookingDate:   &date,
		TotalCents:    180000,
	}
}

func TestDispatchFirstChannelWins(t *testing.T) {
	email := &fakeChannel{name: "email", outcome: OutcomeSent}
	chat := &fakeChannel{name: "chat", outcome: OutcomeSent}
	marker := &fakeMarker{}

	d := NewDispatcher(marker, email, chat)
	if err := d.Dispatch(context.Background(), testEvent()); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if email.sends != 1 {
		t.Errorf("email sends = %d, want 1", email.sends)
	}
	if chat.sends != 0 {
		t.Errorf("chat sends = %d, want 0 after email success", chat.sends)
	}
	if len(marker.marked) != 1 || marker.marked[0] != 42 {
		t.Errorf("marked = %v, want [42]", marker.marked)
	}
}

func TestDispatchFallsBackOnFailure(t *testing.T) {
	email := &fakeChannel{name: "email", outcome: OutcomeFailed, err: errors.New("smtp timeout")}
	chat := &fakeChannel{name: "chat", outcome: OutcomeSent}
	marker := &fakeMarker{}

	d := NewDispatcher(marker, email, chat)
	if err := d.Dispatch(context.Background(), testEvent()); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if chat.sends != 1 {
		t.Errorf("chat sends = %d, want 1 after email failure", chat.sends)
	}
	if len(marker.marked) != 1 {
		t.Errorf("marked = %v, want one booking", marker.marked)
	}
}

func TestDispatchSkipsUnconfiguredChannels(t *testing.T) {
	email := &fakeChannel{name: "email", outcome: OutcomeNotConfigured}
	chat := &fakeChannel{name: "chat", outcome: OutcomeSent}
	marker := &fakeMarker{}

	d := NewDispatcher(marker, email, chat)
	if err := d.Dispatch(context.Background(), testEvent()); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if chat.sends != 1 {
		t.Errorf("chat sends = %d, want 1", chat.sends)
	}
}

func TestDispatchAllChannelsFail(t *testing.T) {
	email := &fakeChannel{name: "email", outcome: OutcomeFailed, err: errors.New("smtp timeout")}
	chat := &fakeChannel{name: "chat", outcome: OutcomeFailed, err: errors.New("webhook 500")}
	marker := &fakeMarker{}

	d := NewDispatcher(marker, email, chat)
	err := d.Dispatch(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error when every channel fails")
	}

	var ie *domain.IntegrationError
	if !errors.As(err, &ie) {
		t.Errorf("error = %v, want IntegrationError", err)
	}
	if len(marker.marked) != 0 {
		t.Errorf("marked = %v, want none when nothing was delivered", marker.marked)
	}
}

func TestDispatchNoChannelConfigured(t *testing.T) {
	email := &fakeChannel{name: "email", outcome: OutcomeNotConfigured}
	chat := &fakeChannel{name: "chat", outcome: OutcomeNotConfigured}
	marker := &fakeMarker{}

	d := NewDispatcher(marker, email, chat)
	err := d.Dispatch(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error when no channel is configured")
	}
	if len(marker.marked) != 0 {
		t.Errorf("marked = %v, want none", marker.marked)
	}
}

func TestDispatchMarkerFailurePropagates(t *testing.T) {
	email := &fakeChannel{name: "email", outcome: OutcomeSent}
	marker := &fakeMarker{err: errors.New("connection refused")}

	d := NewDispatcher(marker, email)
	if err := d.Dispatch(context.Background(), testEvent()); err == nil {
		t.Fatal("expected marker failure to propagate for redelivery")
	}
}

func TestFormatBookingMessage(t *testing.T) {
	ev := testEvent()
	subject, body := FormatBookingMessage(ev)

	if want := "New booking #42: South Island Tour"; subject != want {
		t.Errorf("subject = %q, want %q", subject, want)
	}
	for _, want := range []string{"Jane Doe", "+23012345", "2024-06-01", "1800.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestFormatBookingDateRental(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	ev := &events.BookingCreatedEvent{RentalStart: &start, RentalEnd: &end}

	if got, want := FormatBookingDate(ev), "2024-03-01 to 2024-03-03"; got != want {
		t.Errorf("FormatBookingDate = %q, want %q", got, want)
	}
}
