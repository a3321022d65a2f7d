package service

import (
	"context"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/pkg/events"
	"github.com/lagoon/bookings/pkg/logger"
)

const watchSnapshotLimit = 100

// Watch streams ordered booking-list snapshots for the admin dashboard: one
// initial snapshot, then a fresh one after every booking event. The channel
// closes and the event subscription is released when ctx is cancelled, so a
// re-mounting consumer never leaks listeners.
func (s *bookingService) Watch(ctx context.Context, status *domain.BookingStatus) (<-chan []domain.Booking, error) {
	refresh := make(chan struct{}, 1)
	sub, err := s.eventBus.Subscribe(events.BookingAny, func(msg *events.Message) {
		select {
		case refresh <- struct{}{}:
		default:
			// A refresh is already queued; snapshots coalesce.
		}
	})
	if err != nil {
		return nil, err
	}

	out := make(chan []domain.Booking, 1)

	go func() {
		defer close(out)
		defer func() {
			if err := sub.Unsubscribe(); err != nil {
				logger.WarnContext(ctx, "failed to unsubscribe booking watcher", "error", err)
			}
		}()

		emit := func() {
			snapshot, err := s.snapshot(ctx, status)
			if err != nil {
				logger.ErrorContext(ctx, "failed to load booking snapshot", "error", err)
				return
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
			}
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-refresh:
				emit()
			}
		}
	}()

	return out, nil
}

func (s *bookingService) snapshot(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error) {
	if status != nil {
		return s.repo.ListByStatus(ctx, *status, watchSnapshotLimit, 0)
	}
	return s.repo.List(ctx, watchSnapshotLimit, 0)
}
