package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

const bookingColumns = `id, reference, event_id, holder_id, tickets, unit_price_cents, total_amount_cents, proof_token, status, created_at`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, reference, event_id, holder_id, tickets, unit_price_cents, total_amount_cents, proof_token, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		b.ID,
		b.Reference,
		b.EventID,
		b.HolderID,
		b.Tickets,
		b.UnitPrice.Cents,
		b.TotalAmount.Cents,
		b.ProofToken,
		b.Status,
		b.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("create booking: duplicate reference or proof token: %w", err)
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.getBooking(ctx, query, id)
}

func (r *BookingRepository) GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	return r.getBooking(ctx, query, ref)
}

func (r *BookingRepository) getBooking(ctx context.Context, query, arg string) (domain.Booking, error) {
	b, err := scanBooking(r.queryRow(ctx, query, arg))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) ListBookingsByHolder(ctx context.Context, holderID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE holder_id = $1 ORDER BY created_at, id`
	return r.listBookings(ctx, query, holderID)
}

func (r *BookingRepository) ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE event_id = $1 ORDER BY created_at, id`
	return r.listBookings(ctx, query, eventID)
}

func (r *BookingRepository) listBookings(ctx context.Context, query, arg string) ([]domain.Booking, error) {
	rows, err := r.query(ctx, query, arg)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (r *BookingRepository) TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	const stmt = `UPDATE bookings SET status = $3 WHERE id = $1 AND status = $2`

	tag, err := r.exec(ctx, stmt, id, from, to)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("transition booking status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("transition booking status: %w", err)
	}
	if !exists {
		return false, domain.ErrBookingNotFound
	}
	return false, nil
}

func (r *BookingRepository) TotalRevenue(ctx context.Context) (money.Money, error) {
	const query = `SELECT COALESCE(SUM(total_amount_cents), 0) FROM bookings WHERE status <> 'cancelled'`

	var cents int64
	if err := r.queryRow(ctx, query).Scan(&cents); err != nil {
		return money.Money{}, fmt.Errorf("total revenue: %w", err)
	}
	return money.FromCents(cents), nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var (
		b          domain.Booking
		status     string
		unitCents  int64
		totalCents int64
	)
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.EventID,
		&b.HolderID,
		&b.Tickets,
		&unitCents,
		&totalCents,
		&b.ProofToken,
		&status,
		&b.CreatedAt,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	b.UnitPrice = money.FromCents(unitCents)
	b.TotalAmount = money.FromCents(totalCents)
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *BookingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
