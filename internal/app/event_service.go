package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/clock"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

// EventRepository persists the event catalog. CreateEvent also creates the
// event's inventory row (capacity, sold=0) in the same transaction;
// DeleteEvent must refuse while non-cancelled bookings exist.
type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	GetInventory(ctx context.Context, eventID string) (domain.Inventory, error)
}

// EventService is the event-catalog collaborator around the booking core.
type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name      string
	StartsAt  *time.Time
	Capacity  int
	BasePrice money.Money
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.Name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.Capacity <= 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}
	if !in.BasePrice.IsPositive() {
		return domain.Event{}, domain.ErrInvalidBasePrice
	}

	startsAt := s.clock.Now()
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Name:      in.Name,
		StartsAt:  startsAt,
		Capacity:  in.Capacity,
		BasePrice: in.BasePrice,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// DeleteEvent removes an event and its inventory. Events with active bookings
// cannot be deleted; they have to be cancelled through the booking engine
// first so their tickets are reconciled back into inventory.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteEvent(ctx, eventID)
}

// GetInventory returns a read-only snapshot of the event's counters.
func (s *EventService) GetInventory(ctx context.Context, eventID string) (domain.Inventory, error) {
	if eventID == "" {
		return domain.Inventory{}, domain.ErrInvalidID
	}
	return s.repo.GetInventory(ctx, eventID)
}
