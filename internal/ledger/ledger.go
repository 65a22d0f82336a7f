// Package ledger defines the inventory ledger contract. The ledger is the sole
// mutator of an event's sold counter; every implementation must make the
// check-and-increment in Reserve a single indivisible step per event, while
// operations on different events proceed independently.
package ledger

import "context"

// Receipt is returned by a successful reservation. PriorSold is the counter
// value from before the reservation was applied; pricing for the reservation
// must use it, never a separate snapshot, so the quote cannot race with
// concurrent reservations.
type Receipt struct {
	EventID   string
	PriorSold int
	Sold      int
	Capacity  int
}

// PriorSoldFraction returns the sold fraction the reservation was priced at.
func (r Receipt) PriorSoldFraction() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return float64(r.PriorSold) / float64(r.Capacity)
}

// Ledger provides atomic reserve/release over per-event counters.
type Ledger interface {
	// Reserve atomically checks sold+count <= capacity and increments sold.
	// It returns domain.ErrEventNotFound for unknown events and a
	// *domain.InsufficientInventoryError (no mutation) when capacity is short.
	Reserve(ctx context.Context, eventID string, count int) (Receipt, error)

	// Release atomically decrements sold by count, floored at zero. The floor
	// is a safety net against double-release, not a license for callers to
	// release twice.
	Release(ctx context.Context, eventID string, count int) error

	// SoldFraction returns a read-only snapshot in [0,1]. It may race with
	// concurrent reserve/release; use the Reserve receipt when pricing a
	// reservation.
	SoldFraction(ctx context.Context, eventID string) (float64, error)
}
