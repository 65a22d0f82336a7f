package domain

import (
	"time"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking represents a confirmed ticket purchase. The unit price is fixed at
// creation time and never recomputed; cancelling or completing other bookings
// does not affect it.
type Booking struct {
	ID          string
	Reference   string
	EventID     string
	HolderID    string
	Tickets     int
	UnitPrice   money.Money
	TotalAmount money.Money
	ProofToken  string
	Status      BookingStatus
	CreatedAt   time.Time
}

// Active reports whether the booking still counts against event inventory.
func (b Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}
