package app

import (
	"context"
	"encoding/base32"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/clock"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/ledger"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/notify"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/pricing"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/token"
)

// EventCatalog resolves events for booking creation and pricing quotes.
type EventCatalog interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// BookingRepository persists booking records. The repository never touches
// inventory counters; those belong to the ledger.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b domain.Booking) error
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error)
	ListBookingsByHolder(ctx context.Context, holderID string) ([]domain.Booking, error)
	ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error)
	// TransitionStatus atomically moves a booking from one status to another.
	// It reports false without error when the booking exists but is not in the
	// expected status.
	TransitionStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)
	TotalRevenue(ctx context.Context) (money.Money, error)
}

// TokenIssuer mints and parses proof-of-purchase tokens.
type TokenIssuer interface {
	Issue(b domain.Booking) (string, error)
	Parse(tokenStr string) (*token.Claims, error)
}

// BookingService orchestrates the booking state machine: it is the only
// component that combines the ledger, pricing and token issuance into
// indivisible operations.
type BookingService struct {
	events   EventCatalog
	ledger   ledger.Ledger
	repo     BookingRepository
	issuer   TokenIssuer
	notifier notify.Publisher
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBookingService(
	events EventCatalog,
	led ledger.Ledger,
	repo BookingRepository,
	issuer TokenIssuer,
	notifier notify.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) *BookingService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		events:   events,
		ledger:   led,
		repo:     repo,
		issuer:   issuer,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

type CreateBookingInput struct {
	EventID  string
	HolderID string
	Tickets  int
}

// CreateBooking reserves inventory, prices the reservation at the
// pre-reservation sold fraction, and persists the booking with its proof
// token. Any failure after the reservation succeeds releases the reserved
// tickets before the error propagates, so inventory never leaks.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if in.EventID == "" || in.HolderID == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}
	if in.Tickets <= 0 {
		return domain.Booking{}, domain.ErrInvalidQuantity
	}

	event, err := s.events.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Booking{}, err
	}

	receipt, err := s.ledger.Reserve(ctx, in.EventID, in.Tickets)
	if err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.buildBooking(event, in, receipt)
	if err != nil {
		s.compensate(ctx, in.EventID, in.Tickets)
		return domain.Booking{}, err
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		s.compensate(ctx, in.EventID, in.Tickets)
		return domain.Booking{}, err
	}

	s.publish(ctx, notify.TopicBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) buildBooking(event domain.Event, in CreateBookingInput, receipt ledger.Receipt) (domain.Booking, error) {
	quote, err := pricing.Quote(event.BasePrice, receipt.PriorSoldFraction())
	if err != nil {
		return domain.Booking{}, err
	}

	booking := domain.Booking{
		ID:          uuid.NewString(),
		Reference:   newReference(),
		EventID:     in.EventID,
		HolderID:    in.HolderID,
		Tickets:     in.Tickets,
		UnitPrice:   quote.UnitPrice,
		TotalAmount: quote.UnitPrice.MulQty(in.Tickets),
		Status:      domain.BookingStatusConfirmed,
		CreatedAt:   s.clock.Now(),
	}

	proof, err := s.issuer.Issue(booking)
	if err != nil {
		return domain.Booking{}, err
	}
	booking.ProofToken = proof
	return booking, nil
}

// compensate undoes a reservation when a later step fails. It runs outside any
// lock held during the original reserve.
func (s *BookingService) compensate(ctx context.Context, eventID string, tickets int) {
	if err := s.ledger.Release(ctx, eventID, tickets); err != nil {
		s.logger.Error("compensating release failed",
			"event_id", eventID, "tickets", tickets, "error", err)
	}
}

// CancelBooking transitions a booking to cancelled and returns its tickets to
// the event's inventory. Cancelling twice fails with ErrAlreadyCancelled;
// cancelling a completed booking fails with ErrInvalidTransition.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	ok, err := s.repo.TransitionStatus(ctx, bookingID, domain.BookingStatusConfirmed, domain.BookingStatusCancelled)
	if err != nil {
		return domain.Booking{}, err
	}
	if !ok {
		return domain.Booking{}, s.transitionError(ctx, bookingID)
	}

	if err := s.ledger.Release(ctx, booking.EventID, booking.Tickets); err != nil {
		return domain.Booking{}, err
	}

	booking.Status = domain.BookingStatusCancelled
	s.publish(ctx, notify.TopicBookingCancelled, booking)
	return booking, nil
}

// CompleteBooking marks a confirmed booking completed after the event.
// Inventory is untouched: completed tickets stay counted as sold.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	ok, err := s.repo.TransitionStatus(ctx, bookingID, domain.BookingStatusConfirmed, domain.BookingStatusCompleted)
	if err != nil {
		return domain.Booking{}, err
	}
	if !ok {
		// Completion is only legal from confirmed; any other current status
		// is a state-machine violation, including double completion.
		return domain.Booking{}, domain.ErrInvalidTransition
	}

	booking.Status = domain.BookingStatusCompleted
	return booking, nil
}

// transitionError classifies a failed status transition for cancellation.
func (s *BookingService) transitionError(ctx context.Context, bookingID string) error {
	current, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.Status == domain.BookingStatusCancelled {
		return domain.ErrAlreadyCancelled
	}
	return domain.ErrInvalidTransition
}

// VerificationResult is the outcome of an entry check.
type VerificationResult struct {
	Valid   bool
	Booking *domain.Booking
}

// VerifyEntry checks a proof token without mutating anything. A token is valid
// only when its signature checks out, the booking it names still carries that
// exact token, and the booking is confirmed.
func (s *BookingService) VerifyEntry(ctx context.Context, proofToken string) (VerificationResult, error) {
	booking, ok, err := s.lookupByToken(ctx, proofToken)
	if err != nil {
		return VerificationResult{}, err
	}
	if !ok || booking.Status != domain.BookingStatusConfirmed {
		return VerificationResult{}, nil
	}
	return VerificationResult{Valid: true, Booking: &booking}, nil
}

// RedeemEntry verifies a proof token and consumes it, moving the booking to
// completed so the same token cannot be replayed at the gate. Concurrent
// redeems of one token race on the status transition; exactly one wins.
func (s *BookingService) RedeemEntry(ctx context.Context, proofToken string) (VerificationResult, error) {
	booking, ok, err := s.lookupByToken(ctx, proofToken)
	if err != nil {
		return VerificationResult{}, err
	}
	if !ok || booking.Status != domain.BookingStatusConfirmed {
		return VerificationResult{}, nil
	}

	moved, err := s.repo.TransitionStatus(ctx, booking.ID, domain.BookingStatusConfirmed, domain.BookingStatusCompleted)
	if err != nil {
		return VerificationResult{}, err
	}
	if !moved {
		return VerificationResult{}, nil
	}

	booking.Status = domain.BookingStatusCompleted
	s.publish(ctx, notify.TopicBookingRedeemed, booking)
	return VerificationResult{Valid: true, Booking: &booking}, nil
}

func (s *BookingService) lookupByToken(ctx context.Context, proofToken string) (domain.Booking, bool, error) {
	claims, err := s.issuer.Parse(proofToken)
	if err != nil {
		return domain.Booking{}, false, nil
	}

	booking, err := s.repo.GetBooking(ctx, claims.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return domain.Booking{}, false, nil
		}
		return domain.Booking{}, false, err
	}
	if booking.ProofToken != proofToken {
		return domain.Booking{}, false, nil
	}
	return booking, true, nil
}

// GetPricingQuote prices a hypothetical purchase at the current sold fraction.
// The snapshot may race with concurrent bookings, so the result is for display
// only; the committed price always comes from the reservation receipt.
func (s *BookingService) GetPricingQuote(ctx context.Context, eventID string) (domain.PricingQuote, error) {
	if eventID == "" {
		return domain.PricingQuote{}, domain.ErrInvalidID
	}
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return domain.PricingQuote{}, err
	}
	fraction, err := s.ledger.SoldFraction(ctx, eventID)
	if err != nil {
		return domain.PricingQuote{}, err
	}
	return pricing.Quote(event.BasePrice, fraction)
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	if bookingID == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}
	return s.repo.GetBooking(ctx, bookingID)
}

func (s *BookingService) GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error) {
	if ref == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}
	return s.repo.GetBookingByReference(ctx, ref)
}

func (s *BookingService) ListBookingsByHolder(ctx context.Context, holderID string) ([]domain.Booking, error) {
	if holderID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListBookingsByHolder(ctx, holderID)
}

func (s *BookingService) ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListBookingsByEvent(ctx, eventID)
}

// TotalRevenue sums the total amount over all non-cancelled bookings.
func (s *BookingService) TotalRevenue(ctx context.Context) (money.Money, error) {
	return s.repo.TotalRevenue(ctx)
}

func (s *BookingService) publish(ctx context.Context, topic string, booking domain.Booking) {
	if err := s.notifier.Publish(ctx, topic, booking); err != nil {
		s.logger.Warn("publish booking message failed",
			"topic", topic, "booking_id", booking.ID, "error", err)
	}
}

var referenceEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newReference generates a human-presentable, collision-resistant booking
// reference backed by a random UUID.
func newReference() string {
	u := uuid.New()
	return "BK-" + referenceEncoding.EncodeToString(u[:])
}
