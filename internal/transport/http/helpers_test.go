package http

import (
	"context"
	"errors"
	"time"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/app"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

var errNotStubbed = errors.New("not stubbed")

// stubServices satisfies the router's Services interface with pluggable
// behavior per endpoint.
type stubServices struct {
	createBookingFn   func(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error)
	cancelBookingFn   func(ctx context.Context, bookingID string) (domain.Booking, error)
	completeBookingFn func(ctx context.Context, bookingID string) (domain.Booking, error)
	getBookingFn      func(ctx context.Context, bookingID string) (domain.Booking, error)
	getByReferenceFn  func(ctx context.Context, ref string) (domain.Booking, error)
	listByHolderFn    func(ctx context.Context, holderID string) ([]domain.Booking, error)
	listByEventFn     func(ctx context.Context, eventID string) ([]domain.Booking, error)
	verifyEntryFn     func(ctx context.Context, proofToken string) (app.VerificationResult, error)
	redeemEntryFn     func(ctx context.Context, proofToken string) (app.VerificationResult, error)
	pricingQuoteFn    func(ctx context.Context, eventID string) (domain.PricingQuote, error)
	totalRevenueFn    func(ctx context.Context) (money.Money, error)
}

func (s *stubServices) CreateBooking(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error) {
	if s.createBookingFn == nil {
		return domain.Booking{}, errNotStubbed
	}
	return s.createBookingFn(ctx, in)
}

func (s *stubServices) CancelBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	if s.cancelBookingFn == nil {
		return domain.Booking{}, errNotStubbed
	}
	return s.cancelBookingFn(ctx, bookingID)
}

func (s *stubServices) CompleteBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	if s.completeBookingFn == nil {
		return domain.Booking{}, errNotStubbed
	}
	return s.completeBookingFn(ctx, bookingID)
}

func (s *stubServices) GetBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	if s.getBookingFn == nil {
		return domain.Booking{}, errNotStubbed
	}
	return s.getBookingFn(ctx, bookingID)
}

func (s *stubServices) GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error) {
	if s.getByReferenceFn == nil {
		return domain.Booking{}, errNotStubbed
	}
	return s.getByReferenceFn(ctx, ref)
}

func (s *stubServices) ListBookingsByHolder(ctx context.Context, holderID string) ([]domain.Booking, error) {
	if s.listByHolderFn == nil {
		return nil, errNotStubbed
	}
	return s.listByHolderFn(ctx, holderID)
}

func (s *stubServices) ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	if s.listByEventFn == nil {
		return nil, errNotStubbed
	}
	return s.listByEventFn(ctx, eventID)
}

func (s *stubServices) VerifyEntry(ctx context.Context, proofToken string) (app.VerificationResult, error) {
	if s.verifyEntryFn == nil {
		return app.VerificationResult{}, errNotStubbed
	}
	return s.verifyEntryFn(ctx, proofToken)
}

func (s *stubServices) RedeemEntry(ctx context.Context, proofToken string) (app.VerificationResult, error) {
	if s.redeemEntryFn == nil {
		return app.VerificationResult{}, errNotStubbed
	}
	return s.redeemEntryFn(ctx, proofToken)
}

func (s *stubServices) GetPricingQuote(ctx context.Context, eventID string) (domain.PricingQuote, error) {
	if s.pricingQuoteFn == nil {
		return domain.PricingQuote{}, errNotStubbed
	}
	return s.pricingQuoteFn(ctx, eventID)
}

func (s *stubServices) TotalRevenue(ctx context.Context) (money.Money, error) {
	if s.totalRevenueFn == nil {
		return money.Money{}, errNotStubbed
	}
	return s.totalRevenueFn(ctx)
}

type stubEventService struct {
	createEventFn  func(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	getEventFn     func(ctx context.Context, eventID string) (domain.Event, error)
	listEventsFn   func(ctx context.Context) ([]domain.Event, error)
	deleteEventFn  func(ctx context.Context, eventID string) error
	getInventoryFn func(ctx context.Context, eventID string) (domain.Inventory, error)
}

func (s *stubEventService) CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error) {
	if s.createEventFn == nil {
		return domain.Event{}, errNotStubbed
	}
	return s.createEventFn(ctx, in)
}

func (s *stubEventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if s.getEventFn == nil {
		return domain.Event{}, errNotStubbed
	}
	return s.getEventFn(ctx, eventID)
}

func (s *stubEventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	if s.listEventsFn == nil {
		return nil, errNotStubbed
	}
	return s.listEventsFn(ctx)
}

func (s *stubEventService) DeleteEvent(ctx context.Context, eventID string) error {
	if s.deleteEventFn == nil {
		return errNotStubbed
	}
	return s.deleteEventFn(ctx, eventID)
}

func (s *stubEventService) GetInventory(ctx context.Context, eventID string) (domain.Inventory, error) {
	if s.getInventoryFn == nil {
		return domain.Inventory{}, errNotStubbed
	}
	return s.getInventoryFn(ctx, eventID)
}

func sampleBooking() domain.Booking {
	return domain.Booking{
		ID:          "booking-1",
		Reference:   "BK-SAMPLE",
		EventID:     "event-1",
		HolderID:    "holder-1",
		Tickets:     2,
		UnitPrice:   money.FromCents(11000),
		TotalAmount: money.FromCents(22000),
		ProofToken:  "proof-token-1",
		Status:      domain.BookingStatusConfirmed,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleEvent() domain.Event {
	return domain.Event{
		ID:        "event-1",
		Name:      "Arena Night",
		StartsAt:  time.Date(2025, 6, 10, 19, 30, 0, 0, time.UTC),
		Capacity:  100,
		BasePrice: money.FromCents(10000),
	}
}
