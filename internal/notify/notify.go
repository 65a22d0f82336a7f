// Package notify publishes booking lifecycle messages for downstream
// consumers (email, analytics). Publishing is best effort: a broker outage
// must never fail or roll back a booking operation.
package notify

import (
	"context"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
)

// Routing keys on the booking exchange.
const (
	TopicBookingCreated   = "booking.created"
	TopicBookingCancelled = "booking.cancelled"
	TopicBookingRedeemed  = "booking.redeemed"
)

// BookingMessage is the payload published on every booking lifecycle topic.
type BookingMessage struct {
	BookingID   string `json:"booking_id"`
	Reference   string `json:"reference"`
	EventID     string `json:"event_id"`
	HolderID    string `json:"holder_id"`
	Tickets     int    `json:"tickets"`
	TotalAmount string `json:"total_amount"`
	Status      string `json:"status"`
}

// Publisher emits booking lifecycle messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, booking domain.Booking) error
}

// MessageFor maps a booking to its wire payload.
func MessageFor(b domain.Booking) BookingMessage {
	return BookingMessage{
		BookingID:   b.ID,
		Reference:   b.Reference,
		EventID:     b.EventID,
		HolderID:    b.HolderID,
		Tickets:     b.Tickets,
		TotalAmount: b.TotalAmount.String(),
		Status:      string(b.Status),
	}
}

// Noop discards all messages. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, domain.Booking) error {
	return nil
}
