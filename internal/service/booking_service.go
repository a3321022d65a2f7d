package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lagoon/bookings/internal/catalog"
	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/internal/repo/postgres"
	"github.com/lagoon/bookings/pkg/events"
	"github.com/lagoon/bookings/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error)
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	Watch(ctx context.Context, status *domain.BookingStatus) (<-chan []domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	SetPaymentLink(ctx context.Context, id int64, url string) (*domain.Booking, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type bookingService struct {
	repo     postgres.BookingRepository
	eventBus events.EventBus
}

func NewBookingService(repo postgres.BookingRepository, eventBus events.EventBus) BookingService {
	return &bookingService{repo: repo, eventBus: eventBus}
}

func (s *bookingService) Create(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	b, err := buildBooking(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	event := events.BookingCreatedEvent{
		BookingID:     created.ID,
		CustomerName:  created.CustomerName,
		CustomerPhone: created.CustomerPhone,
		CustomerEmail: created.CustomerEmail,
		ServiceID:     created.ServiceID,
		ServiceName:   created.ServiceName,
		Mode:          string(created.Mode),
		BookingDate:   created.BookingDate,
		RentalStart:   created.RentalStart,
		RentalEnd:     created.RentalEnd,
		Notes:         created.Notes,
		TotalCents:    created.TotalCents,
		CreatedAt:     created.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		// The booking itself is the source of truth; workers catch up via
		// the dashboard's pending view if the event is lost.
		logger.ErrorContext(ctx, "failed to publish booking created event", "error", err, "booking_id", created.ID)
	}

	return created, nil
}

func buildBooking(req *domain.BookingRequest) (*domain.Booking, error) {
	if req.CustomerName == "" {
		return nil, domain.Invalid("customer_name", "name is required")
	}
	if req.CustomerPhone == "" {
		return nil, domain.Invalid("customer_phone", "phone is required")
	}
	if req.ServiceID == "" {
		return nil, domain.Invalid("service_id", "service is required")
	}

	svc, ok := catalog.ByID(req.ServiceID)
	if !ok {
		// The public form submits the display name for legacy clients.
		if svc, ok = catalog.ByName(req.ServiceID); !ok {
			return nil, domain.Invalid("service_id", "unknown service")
		}
	}

	b := &domain.Booking{
		Status:         domain.BookingPending,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		Notes:          req.Notes,
		ServiceID:      svc.ID,
		ServiceName:    svc.Name,
		UnitPriceCents: svc.UnitPriceCents,
		Mode:           svc.Mode,
	}

	switch svc.Mode {
	case domain.ModeSingle:
		if req.RentalStart != "" || req.RentalEnd != "" {
			return nil, domain.Invalid("rental_start", "service takes a single booking date")
		}
		date, err := parseDate(req.BookingDate)
		if err != nil {
			return nil, domain.Invalid("booking_date", "a valid booking date is required")
		}
		b.BookingDate = &date
		b.TotalCents = svc.UnitPriceCents

	case domain.ModeRental:
		if req.BookingDate != "" {
			return nil, domain.Invalid("booking_date", "rental services take a start and end date")
		}
		start, err := parseDate(req.RentalStart)
		if err != nil {
			return nil, domain.Invalid("rental_start", "a valid rental start date is required")
		}
		end, err := parseDate(req.RentalEnd)
		if err != nil {
			return nil, domain.Invalid("rental_end", "a valid rental end date is required")
		}
		if end.Before(start) {
			return nil, domain.Invalid("rental_end", "rental end must not precede rental start")
		}
		days := domain.RentalDays(start, end)
		if days <= 0 {
			return nil, domain.Invalid("rental_end", "rental period must cover at least one day")
		}
		b.RentalStart = &start
		b.RentalEnd = &end
		b.RentalDays = days
		b.TotalCents = svc.UnitPriceCents * int64(days)
	}

	return b, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (s *bookingService) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *bookingService) List(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *bookingService) ListByStatus(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

func (s *bookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if current.Status != updated.Status {
		event := events.BookingStatusChangedEvent{
			BookingID: updated.ID,
			Status:    string(updated.Status),
			UpdatedAt: updated.UpdatedAt,
		}
		if err := s.eventBus.Publish(ctx, events.BookingStatusChanged, event); err != nil {
			logger.ErrorContext(ctx, "failed to publish status change event", "error", err, "booking_id", updated.ID)
		}
	}

	return updated, nil
}

func (s *bookingService) SetPaymentLink(ctx context.Context, id int64, url string) (*domain.Booking, error) {
	updated, err := s.repo.SetPaymentLink(ctx, id, url)
	if err != nil {
		return nil, err
	}

	event := events.BookingStatusChangedEvent{
		BookingID: updated.ID,
		Status:    string(updated.Status),
		UpdatedAt: updated.UpdatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingStatusChanged, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish status change event", "error", err, "booking_id", updated.ID)
	}

	return updated, nil
}

func (s *bookingService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.repo.Stats(ctx)
}
