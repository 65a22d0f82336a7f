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

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// CreateEvent inserts the event and its inventory row in one transaction so an
// event can never exist without counters.
func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	return r.WithTx(ctx, func(txCtx context.Context) error {
		const eventStmt = `
INSERT INTO events (id, name, starts_at, capacity, base_price_cents)
VALUES ($1, $2, $3, $4, $5)`

		if _, err := r.exec(txCtx, eventStmt, event.ID, event.Name, event.StartsAt, event.Capacity, event.BasePrice.Cents); err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		const invStmt = `INSERT INTO inventory (event_id, capacity, sold) VALUES ($1, $2, 0)`
		if _, err := r.exec(txCtx, invStmt, event.ID, event.Capacity); err != nil {
			return fmt.Errorf("create inventory: %w", err)
		}
		return nil
	})
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT id, name, starts_at, capacity, base_price_cents FROM events WHERE id = $1`

	var (
		e     domain.Event
		cents int64
	)
	err := r.queryRow(ctx, query, eventID).Scan(&e.ID, &e.Name, &e.StartsAt, &e.Capacity, &cents)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	e.BasePrice = money.FromCents(cents)
	return e, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT id, name, starts_at, capacity, base_price_cents FROM events ORDER BY starts_at, id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		var (
			e     domain.Event
			cents int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.StartsAt, &e.Capacity, &cents); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.BasePrice = money.FromCents(cents)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// DeleteEvent removes an event, its counters and its cancelled bookings.
// It refuses while any non-cancelled booking exists: those have to go through
// the booking engine first so inventory stays consistent.
func (r *EventRepository) DeleteEvent(ctx context.Context, eventID string) error {
	return r.WithTx(ctx, func(txCtx context.Context) error {
		var active int
		const countQuery = `SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND status <> 'cancelled'`
		if err := r.queryRow(txCtx, countQuery, eventID).Scan(&active); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("count active bookings: %w", err)
		}
		if active > 0 {
			return domain.ErrEventHasBookings
		}

		if _, err := r.exec(txCtx, `DELETE FROM bookings WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		if _, err := r.exec(txCtx, `DELETE FROM inventory WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("delete inventory: %w", err)
		}

		tag, err := r.exec(txCtx, `DELETE FROM events WHERE id = $1`, eventID)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrEventNotFound
		}
		return nil
	})
}

func (r *EventRepository) GetInventory(ctx context.Context, eventID string) (domain.Inventory, error) {
	const query = `SELECT event_id, capacity, sold FROM inventory WHERE event_id = $1`

	var inv domain.Inventory
	err := r.queryRow(ctx, query, eventID).Scan(&inv.EventID, &inv.Capacity, &inv.Sold)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Inventory{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Inventory{}, domain.ErrEventNotFound
		}
		return domain.Inventory{}, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

func (r *EventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
