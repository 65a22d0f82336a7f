// Package memory provides an in-process storage backend. It is the default
// when no database is configured and doubles as the reference implementation
// of the ledger's locking discipline: one mutex per event, so reservations for
// different events never serialize against each other.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/ledger"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

type inventory struct {
	mu       sync.Mutex
	capacity int
	sold     int
}

type Store struct {
	mu          sync.RWMutex
	events      map[string]domain.Event
	inventories map[string]*inventory
	bookings    map[string]domain.Booking
	byReference map[string]string
}

func NewStore() *Store {
	return &Store{
		events:      make(map[string]domain.Event),
		inventories: make(map[string]*inventory),
		bookings:    make(map[string]domain.Booking),
		byReference: make(map[string]string),
	}
}

// --- ledger.Ledger ---

func (s *Store) Reserve(_ context.Context, eventID string, count int) (ledger.Receipt, error) {
	if count <= 0 {
		return ledger.Receipt{}, domain.ErrInvalidQuantity
	}

	inv, err := s.inventory(eventID)
	if err != nil {
		return ledger.Receipt{}, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.sold+count > inv.capacity {
		return ledger.Receipt{}, &domain.InsufficientInventoryError{
			EventID:   eventID,
			Requested: count,
			Available: inv.capacity - inv.sold,
		}
	}

	prior := inv.sold
	inv.sold += count
	return ledger.Receipt{
		EventID:   eventID,
		PriorSold: prior,
		Sold:      inv.sold,
		Capacity:  inv.capacity,
	}, nil
}

func (s *Store) Release(_ context.Context, eventID string, count int) error {
	if count <= 0 {
		return domain.ErrInvalidQuantity
	}

	inv, err := s.inventory(eventID)
	if err != nil {
		return err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.sold -= count
	if inv.sold < 0 {
		inv.sold = 0
	}
	return nil
}

func (s *Store) SoldFraction(_ context.Context, eventID string) (float64, error) {
	inv, err := s.inventory(eventID)
	if err != nil {
		return 0, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.capacity <= 0 {
		return 0, nil
	}
	return float64(inv.sold) / float64(inv.capacity), nil
}

func (s *Store) inventory(eventID string) (*inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return inv, nil
}

// --- app.EventRepository ---

func (s *Store) CreateEvent(_ context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
	s.inventories[event.ID] = &inventory{capacity: event.Capacity}
	return nil
}

func (s *Store) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) ListEvents(_ context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return domain.ErrEventNotFound
	}
	for _, b := range s.bookings {
		if b.EventID == eventID && b.Active() {
			return domain.ErrEventHasBookings
		}
	}

	delete(s.events, eventID)
	delete(s.inventories, eventID)
	for id, b := range s.bookings {
		if b.EventID == eventID {
			delete(s.bookings, id)
			delete(s.byReference, b.Reference)
		}
	}
	return nil
}

func (s *Store) GetInventory(_ context.Context, eventID string) (domain.Inventory, error) {
	inv, err := s.inventory(eventID)
	if err != nil {
		return domain.Inventory{}, err
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return domain.Inventory{EventID: eventID, Capacity: inv.capacity, Sold: inv.sold}, nil
}

// --- app.BookingRepository ---

func (s *Store) CreateBooking(_ context.Context, b domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
	s.byReference[b.Reference] = b.ID
	return nil
}

func (s *Store) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (s *Store) GetBookingByReference(_ context.Context, ref string) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byReference[ref]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return s.bookings[id], nil
}

func (s *Store) ListBookingsByHolder(_ context.Context, holderID string) ([]domain.Booking, error) {
	return s.listBookings(func(b domain.Booking) bool { return b.HolderID == holderID }), nil
}

func (s *Store) ListBookingsByEvent(_ context.Context, eventID string) ([]domain.Booking, error) {
	return s.listBookings(func(b domain.Booking) bool { return b.EventID == eventID }), nil
}

func (s *Store) listBookings(match func(domain.Booking) bool) []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) TransitionStatus(_ context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return false, domain.ErrBookingNotFound
	}
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	s.bookings[id] = b
	return true, nil
}

func (s *Store) TotalRevenue(_ context.Context) (money.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, b := range s.bookings {
		if b.Active() {
			total += b.TotalAmount.Cents
		}
	}
	return money.FromCents(total), nil
}
