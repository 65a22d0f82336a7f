package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/ledger"
)

// InventoryRepository implements the inventory ledger on a per-event counter
// row. The reserve check-and-increment is a single conditional UPDATE, so row
// locking makes it indivisible per event while leaving other events untouched.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) Reserve(ctx context.Context, eventID string, count int) (ledger.Receipt, error) {
	if count <= 0 {
		return ledger.Receipt{}, domain.ErrInvalidQuantity
	}

	const stmt = `
UPDATE inventory
SET sold = sold + $2
WHERE event_id = $1 AND sold + $2 <= capacity
RETURNING sold, capacity`

	var sold, capacity int
	err := r.queryRow(ctx, stmt, eventID, count).Scan(&sold, &capacity)
	if err == nil {
		return ledger.Receipt{
			EventID:   eventID,
			PriorSold: sold - count,
			Sold:      sold,
			Capacity:  capacity,
		}, nil
	}
	if isInvalidUUID(err) {
		return ledger.Receipt{}, domain.ErrEventNotFound
	}
	if err != pgx.ErrNoRows {
		return ledger.Receipt{}, fmt.Errorf("reserve inventory: %w", err)
	}

	// No row updated: the event is unknown or capacity is short. The
	// availability reported here is informational and may already be stale.
	const snapshot = `SELECT sold, capacity FROM inventory WHERE event_id = $1`
	if err := r.queryRow(ctx, snapshot, eventID).Scan(&sold, &capacity); err != nil {
		if err == pgx.ErrNoRows {
			return ledger.Receipt{}, domain.ErrEventNotFound
		}
		return ledger.Receipt{}, fmt.Errorf("reserve inventory: %w", err)
	}
	return ledger.Receipt{}, &domain.InsufficientInventoryError{
		EventID:   eventID,
		Requested: count,
		Available: capacity - sold,
	}
}

func (r *InventoryRepository) Release(ctx context.Context, eventID string, count int) error {
	if count <= 0 {
		return domain.ErrInvalidQuantity
	}

	const stmt = `UPDATE inventory SET sold = GREATEST(sold - $2, 0) WHERE event_id = $1`

	tag, err := r.exec(ctx, stmt, eventID, count)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("release inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *InventoryRepository) SoldFraction(ctx context.Context, eventID string) (float64, error) {
	const query = `SELECT sold, capacity FROM inventory WHERE event_id = $1`

	var sold, capacity int
	if err := r.queryRow(ctx, query, eventID).Scan(&sold, &capacity); err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("sold fraction: %w", err)
	}
	if capacity <= 0 {
		return 0, nil
	}
	return float64(sold) / float64(capacity), nil
}

func (r *InventoryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}
