// Package sqlite provides a single-file storage backend for local runs and
// small deployments. Reservations use the same one-statement conditional
// update as the Postgres backend; SQLite itself serializes writers, which is
// stricter than the per-event exclusion the ledger requires but never weaker.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/ledger"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	starts_at TIMESTAMP NOT NULL,
	capacity INTEGER NOT NULL CHECK (capacity > 0),
	base_price_cents INTEGER NOT NULL CHECK (base_price_cents > 0)
);

CREATE TABLE IF NOT EXISTS inventory (
	event_id TEXT PRIMARY KEY REFERENCES events(id),
	capacity INTEGER NOT NULL,
	sold INTEGER NOT NULL DEFAULT 0,
	CHECK (sold >= 0 AND sold <= capacity)
);

CREATE TABLE IF NOT EXISTS bookings (
	id TEXT PRIMARY KEY,
	reference TEXT NOT NULL UNIQUE,
	event_id TEXT NOT NULL REFERENCES events(id),
	holder_id TEXT NOT NULL,
	tickets INTEGER NOT NULL CHECK (tickets > 0),
	unit_price_cents INTEGER NOT NULL,
	total_amount_cents INTEGER NOT NULL,
	proof_token TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bookings_holder ON bookings(holder_id);
CREATE INDEX IF NOT EXISTS idx_bookings_event ON bookings(event_id);
`

type Store struct {
	db *sql.DB
}

// Open opens (and creates, if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection avoids SQLITE_BUSY between concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- ledger.Ledger ---

func (s *Store) Reserve(ctx context.Context, eventID string, count int) (ledger.Receipt, error) {
	if count <= 0 {
		return ledger.Receipt{}, domain.ErrInvalidQuantity
	}

	// The update and the counter read must see the same state, so both run in
	// one transaction; the transaction pins the store's single connection and
	// keeps other writers out until commit.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("reserve inventory: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE inventory SET sold = sold + ? WHERE event_id = ? AND sold + ? <= capacity`,
		count, eventID, count)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("reserve inventory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("reserve inventory: %w", err)
	}

	var sold, capacity int
	row := tx.QueryRowContext(ctx, `SELECT sold, capacity FROM inventory WHERE event_id = ?`, eventID)
	if err := row.Scan(&sold, &capacity); err != nil {
		if err == sql.ErrNoRows {
			return ledger.Receipt{}, domain.ErrEventNotFound
		}
		return ledger.Receipt{}, fmt.Errorf("reserve inventory: %w", err)
	}

	if affected == 0 {
		return ledger.Receipt{}, &domain.InsufficientInventoryError{
			EventID:   eventID,
			Requested: count,
			Available: capacity - sold,
		}
	}
	if err := tx.Commit(); err != nil {
		return ledger.Receipt{}, fmt.Errorf("reserve inventory: %w", err)
	}
	return ledger.Receipt{
		EventID:   eventID,
		PriorSold: sold - count,
		Sold:      sold,
		Capacity:  capacity,
	}, nil
}

func (s *Store) Release(ctx context.Context, eventID string, count int) error {
	if count <= 0 {
		return domain.ErrInvalidQuantity
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE inventory SET sold = MAX(sold - ?, 0) WHERE event_id = ?`,
		count, eventID)
	if err != nil {
		return fmt.Errorf("release inventory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release inventory: %w", err)
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (s *Store) SoldFraction(ctx context.Context, eventID string) (float64, error) {
	var sold, capacity int
	row := s.db.QueryRowContext(ctx, `SELECT sold, capacity FROM inventory WHERE event_id = ?`, eventID)
	if err := row.Scan(&sold, &capacity); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("sold fraction: %w", err)
	}
	if capacity <= 0 {
		return 0, nil
	}
	return float64(sold) / float64(capacity), nil
}

// --- app.EventRepository ---

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, name, starts_at, capacity, base_price_cents) VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.Name, event.StartsAt, event.Capacity, event.BasePrice.Cents); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO inventory (event_id, capacity, sold) VALUES (?, ?, 0)`,
		event.ID, event.Capacity); err != nil {
		return fmt.Errorf("create inventory: %w", err)
	}
	return tx.Commit()
}

func (s *Store) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, starts_at, capacity, base_price_cents FROM events WHERE id = ?`, eventID)

	var (
		e     domain.Event
		cents int64
	)
	if err := row.Scan(&e.ID, &e.Name, &e.StartsAt, &e.Capacity, &cents); err != nil {
		if err == sql.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	e.BasePrice = money.FromCents(cents)
	return e, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, starts_at, capacity, base_price_cents FROM events ORDER BY starts_at, id`)
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
	return out, rows.Err()
}

func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	defer tx.Rollback()

	var active int
	row := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = ? AND status <> 'cancelled'`, eventID)
	if err := row.Scan(&active); err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}
	if active > 0 {
		return domain.ErrEventHasBookings
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return tx.Commit()
}

func (s *Store) GetInventory(ctx context.Context, eventID string) (domain.Inventory, error) {
	var inv domain.Inventory
	row := s.db.QueryRowContext(ctx, `SELECT event_id, capacity, sold FROM inventory WHERE event_id = ?`, eventID)
	if err := row.Scan(&inv.EventID, &inv.Capacity, &inv.Sold); err != nil {
		if err == sql.ErrNoRows {
			return domain.Inventory{}, domain.ErrEventNotFound
		}
		return domain.Inventory{}, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// --- app.BookingRepository ---

const bookingColumns = `id, reference, event_id, holder_id, tickets, unit_price_cents, total_amount_cents, proof_token, status, created_at`

func (s *Store) CreateBooking(ctx context.Context, b domain.Booking) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Reference, b.EventID, b.HolderID, b.Tickets,
		b.UnitPrice.Cents, b.TotalAmount.Cents, b.ProofToken, string(b.Status), b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return s.getBooking(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
}

func (s *Store) GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error) {
	return s.getBooking(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference = ?`, ref)
}

func (s *Store) getBooking(ctx context.Context, query, arg string) (domain.Booking, error) {
	b, err := scanBooking(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (s *Store) ListBookingsByHolder(ctx context.Context, holderID string) ([]domain.Booking, error) {
	return s.listBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE holder_id = ? ORDER BY created_at, id`, holderID)
}

func (s *Store) ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	return s.listBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE event_id = ? ORDER BY created_at, id`, eventID)
}

func (s *Store) listBookings(ctx context.Context, query, arg string) ([]domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
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
	return out, rows.Err()
}

func (s *Store) TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("transition booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition booking status: %w", err)
	}
	if affected == 1 {
		return true, nil
	}

	var exists int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE id = ?`, id)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("transition booking status: %w", err)
	}
	if exists == 0 {
		return false, domain.ErrBookingNotFound
	}
	return false, nil
}

func (s *Store) TotalRevenue(ctx context.Context) (money.Money, error) {
	var cents int64
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount_cents), 0) FROM bookings WHERE status <> 'cancelled'`)
	if err := row.Scan(&cents); err != nil {
		return money.Money{}, fmt.Errorf("total revenue: %w", err)
	}
	return money.FromCents(cents), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var (
		b          domain.Booking
		status     string
		unitCents  int64
		totalCents int64
	)
	err := row.Scan(
		&b.ID, &b.Reference, &b.EventID, &b.HolderID, &b.Tickets,
		&unitCents, &totalCents, &b.ProofToken, &status, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, err
	}
	b.UnitPrice = money.FromCents(unitCents)
	b.TotalAmount = money.FromCents(totalCents)
	b.Status = domain.BookingStatus(status)
	return b, nil
}
