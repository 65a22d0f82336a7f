package domain

import (
	"time"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

// Event represents a ticketed event with a single block of general-admission
// inventory. Capacity is immutable after creation; the sold counter is owned by
// the inventory ledger and never mutated elsewhere.
type Event struct {
	ID        string
	Name      string
	StartsAt  time.Time
	Capacity  int
	BasePrice money.Money
}

// Inventory is a read-only snapshot of an event's counters.
type Inventory struct {
	EventID  string
	Capacity int
	Sold     int
}

// Available returns the number of unreserved tickets in the snapshot.
func (i Inventory) Available() int {
	return i.Capacity - i.Sold
}

// SoldFraction returns sold/capacity in [0,1].
func (i Inventory) SoldFraction() float64 {
	if i.Capacity <= 0 {
		return 0
	}
	return float64(i.Sold) / float64(i.Capacity)
}
