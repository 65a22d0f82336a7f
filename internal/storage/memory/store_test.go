package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

func seedEvent(t *testing.T, s *Store, id string, capacity int) {
	t.Helper()
	err := s.CreateEvent(context.Background(), domain.Event{
		ID:        id,
		Name:      "Event " + id,
		StartsAt:  time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		Capacity:  capacity,
		BasePrice: money.FromCents(10000),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
}

func TestStore_Reserve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reserves and reports prior counter", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		seedEvent(t, s, "event-1", 10)

		receipt, err := s.Reserve(ctx, "event-1", 4)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if receipt.PriorSold != 0 || receipt.Sold != 4 || receipt.Capacity != 10 {
			t.Fatalf("unexpected receipt %+v", receipt)
		}

		receipt, err = s.Reserve(ctx, "event-1", 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if receipt.PriorSold != 4 || receipt.Sold != 7 {
			t.Fatalf("unexpected receipt %+v", receipt)
		}
	})

	t.Run("rejects oversell without mutation", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		seedEvent(t, s, "event-1", 10)
		if _, err := s.Reserve(ctx, "event-1", 8); err != nil {
			t.Fatalf("reserve: %v", err)
		}

		_, err := s.Reserve(ctx, "event-1", 4)
		var invErr *domain.InsufficientInventoryError
		if !errors.As(err, &invErr) {
			t.Fatalf("expected InsufficientInventoryError, got %v", err)
		}
		if invErr.Available != 2 || invErr.Requested != 4 {
			t.Fatalf("unexpected error detail %+v", invErr)
		}

		inv, err := s.GetInventory(ctx, "event-1")
		if err != nil {
			t.Fatalf("inventory: %v", err)
		}
		if inv.Sold != 8 {
			t.Fatalf("expected sold unchanged at 8, got %d", inv.Sold)
		}
	})

	t.Run("exact fit fills to capacity", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		seedEvent(t, s, "event-1", 10)

		if _, err := s.Reserve(ctx, "event-1", 10); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := s.Reserve(ctx, "event-1", 1); err == nil {
			t.Fatalf("expected error on sold-out event")
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		if _, err := s.Reserve(ctx, "missing", 1); !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("invalid count", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		seedEvent(t, s, "event-1", 10)
		if _, err := s.Reserve(ctx, "event-1", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestStore_Release(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewStore()
	seedEvent(t, s, "event-1", 10)
	if _, err := s.Reserve(ctx, "event-1", 5); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := s.Release(ctx, "event-1", 3); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	inv, _ := s.GetInventory(ctx, "event-1")
	if inv.Sold != 2 {
		t.Fatalf("expected 2 sold, got %d", inv.Sold)
	}

	// Over-release floors at zero.
	if err := s.Release(ctx, "event-1", 99); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	inv, _ = s.GetInventory(ctx, "event-1")
	if inv.Sold != 0 {
		t.Fatalf("expected sold floored at 0, got %d", inv.Sold)
	}

	if err := s.Release(ctx, "missing", 1); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

// TestStore_ReserveConcurrent hammers one event from many goroutines and
// checks that the capacity bound holds: successful reservations sum to at most
// capacity, and the counter equals exactly that sum.
func TestStore_ReserveConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const capacity = 100
	const workers = 50
	const perWorker = 4

	s := NewStore()
	seedEvent(t, s, "event-1", capacity)

	var wg sync.WaitGroup
	results := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reserved := 0
			for j := 0; j < perWorker; j++ {
				if _, err := s.Reserve(ctx, "event-1", 1); err == nil {
					reserved++
				}
			}
			results <- reserved
		}()
	}
	wg.Wait()
	close(results)

	total := 0
	for r := range results {
		total += r
	}
	if total > capacity {
		t.Fatalf("oversold: %d reservations for capacity %d", total, capacity)
	}

	inv, err := s.GetInventory(ctx, "event-1")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.Sold != total {
		t.Fatalf("counter drift: %d sold vs %d successful reservations", inv.Sold, total)
	}
}

// TestStore_ReserveReleaseConcurrent mixes reservations with releases and
// checks conservation: sold never leaves [0, capacity] and ends at the net of
// all successful operations.
func TestStore_ReserveReleaseConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const capacity = 50
	s := NewStore()
	seedEvent(t, s, "event-1", capacity)

	var wg sync.WaitGroup
	reserved := make(chan int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := 0
			for j := 0; j < 10; j++ {
				if _, err := s.Reserve(ctx, "event-1", 2); err == nil {
					n += 2
				}
			}
			// Give half of what this worker took back.
			if n >= 2 {
				if err := s.Release(ctx, "event-1", n/2); err != nil {
					t.Errorf("release: %v", err)
				}
				n -= n / 2
			}
			reserved <- n
		}()
	}
	wg.Wait()
	close(reserved)

	want := 0
	for n := range reserved {
		want += n
	}

	inv, err := s.GetInventory(ctx, "event-1")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.Sold != want {
		t.Fatalf("conservation violated: %d sold, expected %d", inv.Sold, want)
	}
	if inv.Sold < 0 || inv.Sold > capacity {
		t.Fatalf("sold %d outside [0,%d]", inv.Sold, capacity)
	}
}

// TestStore_IndependentEvents checks that reservations on different events do
// not interfere with each other's counters.
func TestStore_IndependentEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewStore()
	seedEvent(t, s, "event-1", 30)
	seedEvent(t, s, "event-2", 30)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				s.Reserve(ctx, "event-1", 1)
				s.Reserve(ctx, "event-2", 1)
			}
		}()
	}
	wg.Wait()

	for _, id := range []string{"event-1", "event-2"} {
		inv, err := s.GetInventory(ctx, id)
		if err != nil {
			t.Fatalf("inventory %s: %v", id, err)
		}
		if inv.Sold != 30 {
			t.Fatalf("expected %s fully sold, got %d", id, inv.Sold)
		}
	}
}

func TestStore_Bookings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newBooking := func(id, ref, eventID, holderID string, created time.Time) domain.Booking {
		return domain.Booking{
			ID:          id,
			Reference:   ref,
			EventID:     eventID,
			HolderID:    holderID,
			Tickets:     2,
			UnitPrice:   money.FromCents(10000),
			TotalAmount: money.FromCents(20000),
			ProofToken:  "token-" + id,
			Status:      domain.BookingStatusConfirmed,
			CreatedAt:   created,
		}
	}

	t.Run("lookup by id and reference", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		if err := s.CreateBooking(ctx, newBooking("b1", "BK-ONE", "event-1", "holder-1", base)); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := s.GetBooking(ctx, "b1")
		if err != nil || got.Reference != "BK-ONE" {
			t.Fatalf("get booking: %v %+v", err, got)
		}
		got, err = s.GetBookingByReference(ctx, "BK-ONE")
		if err != nil || got.ID != "b1" {
			t.Fatalf("get by reference: %v %+v", err, got)
		}
		if _, err := s.GetBooking(ctx, "missing"); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
		if _, err := s.GetBookingByReference(ctx, "BK-MISSING"); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("lists are filtered and ordered by creation time", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		s.CreateBooking(ctx, newBooking("b2", "BK-TWO", "event-1", "holder-1", base.Add(time.Minute)))
		s.CreateBooking(ctx, newBooking("b1", "BK-ONE", "event-1", "holder-1", base))
		s.CreateBooking(ctx, newBooking("b3", "BK-THREE", "event-2", "holder-2", base))

		byHolder, err := s.ListBookingsByHolder(ctx, "holder-1")
		if err != nil {
			t.Fatalf("list by holder: %v", err)
		}
		if len(byHolder) != 2 || byHolder[0].ID != "b1" || byHolder[1].ID != "b2" {
			t.Fatalf("unexpected holder list %+v", byHolder)
		}

		byEvent, err := s.ListBookingsByEvent(ctx, "event-2")
		if err != nil {
			t.Fatalf("list by event: %v", err)
		}
		if len(byEvent) != 1 || byEvent[0].ID != "b3" {
			t.Fatalf("unexpected event list %+v", byEvent)
		}
	})

	t.Run("transition status", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		s.CreateBooking(ctx, newBooking("b1", "BK-ONE", "event-1", "holder-1", base))

		ok, err := s.TransitionStatus(ctx, "b1", domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
		if err != nil || !ok {
			t.Fatalf("expected transition to succeed, got ok=%v err=%v", ok, err)
		}
		ok, err = s.TransitionStatus(ctx, "b1", domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
		if err != nil || ok {
			t.Fatalf("expected repeat transition to report false, got ok=%v err=%v", ok, err)
		}
		if _, err := s.TransitionStatus(ctx, "missing", domain.BookingStatusConfirmed, domain.BookingStatusCancelled); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("concurrent transition has exactly one winner", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		s.CreateBooking(ctx, newBooking("b1", "BK-ONE", "event-1", "holder-1", base))

		var wg sync.WaitGroup
		wins := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := s.TransitionStatus(ctx, "b1", domain.BookingStatusConfirmed, domain.BookingStatusCompleted)
				if err != nil {
					t.Errorf("transition: %v", err)
					return
				}
				wins <- ok
			}()
		}
		wg.Wait()
		close(wins)

		winners := 0
		for ok := range wins {
			if ok {
				winners++
			}
		}
		if winners != 1 {
			t.Fatalf("expected exactly one winner, got %d", winners)
		}
	})

	t.Run("total revenue skips cancelled bookings", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		s.CreateBooking(ctx, newBooking("b1", "BK-ONE", "event-1", "holder-1", base))
		s.CreateBooking(ctx, newBooking("b2", "BK-TWO", "event-1", "holder-2", base))
		completed := newBooking("b3", "BK-THREE", "event-1", "holder-3", base)
		completed.Status = domain.BookingStatusCompleted
		s.CreateBooking(ctx, completed)
		s.TransitionStatus(ctx, "b1", domain.BookingStatusConfirmed, domain.BookingStatusCancelled)

		total, err := s.TotalRevenue(ctx)
		if err != nil {
			t.Fatalf("revenue: %v", err)
		}
		if total.Cents != 40000 {
			t.Fatalf("expected 40000 cents, got %d", total.Cents)
		}
	})
}

func TestStore_DeleteEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("refuses while active bookings exist", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		seedEvent(t, s, "event-1", 10)
		s.CreateBooking(ctx, domain.Booking{ID: "b1", Reference: "BK-ONE", EventID: "event-1", HolderID: "h1", Status: domain.BookingStatusConfirmed, CreatedAt: base})

		if err := s.DeleteEvent(ctx, "event-1"); !errors.Is(err, domain.ErrEventHasBookings) {
			t.Fatalf("expected ErrEventHasBookings, got %v", err)
		}
	})

	t.Run("cascades cancelled bookings", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		seedEvent(t, s, "event-1", 10)
		s.CreateBooking(ctx, domain.Booking{ID: "b1", Reference: "BK-ONE", EventID: "event-1", HolderID: "h1", Status: domain.BookingStatusCancelled, CreatedAt: base})

		if err := s.DeleteEvent(ctx, "event-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := s.GetEvent(ctx, "event-1"); !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		if _, err := s.GetBooking(ctx, "b1"); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
		if _, err := s.GetBookingByReference(ctx, "BK-ONE"); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		s := NewStore()
		if err := s.DeleteEvent(ctx, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})
}

func TestStore_ListEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		err := s.CreateEvent(ctx, domain.Event{
			ID:        fmt.Sprintf("event-%d", i+1),
			Name:      fmt.Sprintf("Event %d", i+1),
			StartsAt:  base.Add(offset),
			Capacity:  10,
			BasePrice: money.FromCents(1000),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	events, err := s.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].ID != "event-2" || events[1].ID != "event-3" || events[2].ID != "event-1" {
		t.Fatalf("unexpected order: %s, %s, %s", events[0].ID, events[1].ID, events[2].ID)
	}
}
