package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lagoon/bookings/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	SetPaymentLink(ctx context.Context, id int64, url string) (*domain.Booking, error)
	MarkOwnerNotified(ctx context.Context, id int64) (*domain.Booking, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, status,
customer_name, customer_phone, customer_email, notes,
service_id, service_name, unit_price_cents,
mode, booking_date, rental_start, rental_end, rental_days,
total_cents, payment_link, paid_at, owner_notified_at,
created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.Status,
		&b.CustomerName, &b.CustomerPhone, &b.CustomerEmail, &b.Notes,
		&b.ServiceID, &b.ServiceName, &b.UnitPriceCents,
		&b.Mode, &b.BookingDate, &b.RentalStart, &b.RentalEnd, &b.RentalDays,
		&b.TotalCents, &b.PaymentLink, &b.PaidAt, &b.OwnerNotifiedAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
		status,
		customer_name, customer_phone, customer_email, notes,
		service_id, service_name, unit_price_cents,
		mode, booking_date, rental_start, rental_end, rental_days,
		total_cents
	) VALUES ('pending',$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(r.pool.QueryRow(ctx, q,
		b.CustomerName, b.CustomerPhone, b.CustomerEmail, b.Notes,
		b.ServiceID, b.ServiceName, b.UnitPriceCents,
		b.Mode, b.BookingDate, b.RentalStart, b.RentalEnd, b.RentalDays,
		b.TotalCents,
	))
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *bookingRepository) List(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	limit, offset = clampPage(limit, offset)

	const q = `SELECT ` + bookingCols + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	limit, offset = clampPage(limit, offset)

	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateStatus applies the paid_at side effects in one statement: confirming
// keeps the first paid_at across duplicate deliveries, any other status
// clears it.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const q = `UPDATE bookings SET
		status     = $2,
		paid_at    = CASE WHEN $2 = 'confirmed' THEN COALESCE(paid_at, now()) ELSE NULL END,
		updated_at = now()
	WHERE id=$1
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *bookingRepository) SetPaymentLink(ctx context.Context, id int64, url string) (*domain.Booking, error) {
	const q = `UPDATE bookings SET
		payment_link = $2,
		status       = 'pending_payment',
		updated_at   = now()
	WHERE id=$1
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id, url))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *bookingRepository) MarkOwnerNotified(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `UPDATE bookings SET
		owner_notified_at = now(),
		updated_at        = now()
	WHERE id=$1
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *bookingRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	const q = `SELECT
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE created_at >= now() - interval '7 days'),
		COUNT(*) FILTER (WHERE status = 'confirmed' AND created_at >= now() - interval '7 days'),
		COALESCE(SUM(total_cents) FILTER (WHERE status = 'confirmed' AND paid_at >= now() - interval '7 days'), 0),
		COUNT(*) FILTER (WHERE created_at >= now() - interval '30 days'),
		COUNT(*) FILTER (WHERE status = 'confirmed' AND created_at >= now() - interval '30 days'),
		COALESCE(SUM(total_cents) FILTER (WHERE status = 'confirmed' AND paid_at >= now() - interval '30 days'), 0)
	FROM bookings`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Stats
	err := r.pool.QueryRow(ctx, q).Scan(
		&s.Pending,
		&s.Week.Bookings, &s.Week.Confirmed, &s.Week.RevenueCents,
		&s.Month.Bookings, &s.Month.Confirmed, &s.Month.RevenueCents,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
