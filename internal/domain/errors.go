package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAlreadyCancelled    = errors.New("booking already cancelled")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrInvalidQuantity     = errors.New("invalid ticket quantity")
	ErrInvalidPricingInput = errors.New("invalid pricing input")
	ErrTokenInvalid        = errors.New("proof token invalid")
	ErrEventHasBookings    = errors.New("event has active bookings")
	ErrEventNameRequired   = errors.New("event name required")
	ErrInvalidCapacity     = errors.New("invalid capacity")
	ErrInvalidBasePrice    = errors.New("invalid base price")
	ErrInvalidID           = errors.New("invalid id")
)

// InsufficientInventoryError reports a failed reservation together with how many
// tickets were still available when the attempt was made.
type InsufficientInventoryError struct {
	EventID   string
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory: requested %d, available %d", e.Requested, e.Available)
}
