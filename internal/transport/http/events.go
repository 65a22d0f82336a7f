package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/app"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/money"
)

// EventAdminService is the minimal interface for the catalog admin endpoints.
type EventAdminService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	GetInventory(ctx context.Context, eventID string) (domain.Inventory, error)
}

// QuoteService prices a prospective purchase for display.
type QuoteService interface {
	GetPricingQuote(ctx context.Context, eventID string) (domain.PricingQuote, error)
}

// RevenueService reports total non-cancelled revenue.
type RevenueService interface {
	TotalRevenue(ctx context.Context) (money.Money, error)
}

type createEventRequest struct {
	Name      string `json:"name"`
	StartsAt  string `json:"starts_at"`
	Capacity  int    `json:"capacity"`
	BasePrice string `json:"base_price"`
}

type eventResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	StartsAt  time.Time   `json:"starts_at"`
	Capacity  int         `json:"capacity"`
	BasePrice money.Money `json:"base_price"`
}

type eventDetailResponse struct {
	eventResponse
	Sold      int `json:"sold"`
	Available int `json:"available"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Name:      e.Name,
		StartsAt:  e.StartsAt,
		Capacity:  e.Capacity,
		BasePrice: e.BasePrice,
	}
}

// HandleCreateEvent returns an HTTP handler for creating events.
func HandleCreateEvent(svc EventAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		var startsAt *time.Time
		if req.StartsAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.StartsAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid starts_at format")
				return
			}
			startsAt = &parsed
		}

		basePrice, err := money.Parse(req.BasePrice)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidBasePrice, "invalid base_price")
			return
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			Name:      req.Name,
			StartsAt:  startsAt,
			Capacity:  req.Capacity,
			BasePrice: basePrice,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

// HandleListEvents returns an HTTP handler listing all events.
func HandleListEvents(svc EventAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]eventResponse, 0, len(events))
		for _, e := range events {
			resp = append(resp, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleGetEvent returns one event together with its inventory snapshot.
func HandleGetEvent(svc EventAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := mux.Vars(r)["id"]
		event, err := svc.GetEvent(r.Context(), eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		inv, err := svc.GetInventory(r.Context(), eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, eventDetailResponse{
			eventResponse: toEventResponse(event),
			Sold:          inv.Sold,
			Available:     inv.Available(),
		})
	}
}

// HandleDeleteEvent deletes an event; events with active bookings cannot be
// removed.
func HandleDeleteEvent(svc EventAdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteEvent(r.Context(), mux.Vars(r)["id"]); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type quoteResponse struct {
	EventID      string      `json:"event_id"`
	BasePrice    money.Money `json:"base_price"`
	UnitPrice    money.Money `json:"unit_price"`
	AppliedTier  string      `json:"applied_tier"`
	SoldFraction float64     `json:"sold_fraction"`
}

// HandleGetQuote prices a prospective purchase at the current sold fraction.
// The committed price may differ; it is fixed by the reservation itself.
func HandleGetQuote(svc QuoteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := mux.Vars(r)["id"]
		quote, err := svc.GetPricingQuote(r.Context(), eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quoteResponse{
			EventID:      eventID,
			BasePrice:    quote.BasePrice,
			UnitPrice:    quote.UnitPrice,
			AppliedTier:  string(quote.AppliedTier),
			SoldFraction: quote.SoldFraction,
		})
	}
}

type revenueResponse struct {
	TotalRevenue money.Money `json:"total_revenue"`
}

// HandleRevenue reports the revenue over all non-cancelled bookings.
func HandleRevenue(svc RevenueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := svc.TotalRevenue(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, revenueResponse{TotalRevenue: total})
	}
}
