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
	"github.com/aka-Harsh/Events-Booking-Applications/internal/token"
)

// BookingService is the minimal interface the booking endpoints need.
type BookingService interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (domain.Booking, error)
	CompleteBooking(ctx context.Context, bookingID string) (domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (domain.Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error)
	ListBookingsByHolder(ctx context.Context, holderID string) ([]domain.Booking, error)
	ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error)
}

type createBookingRequest struct {
	EventID  string `json:"event_id"`
	HolderID string `json:"holder_id"`
	Tickets  int    `json:"tickets"`
}

type bookingResponse struct {
	ID          string      `json:"id"`
	Reference   string      `json:"reference"`
	EventID     string      `json:"event_id"`
	HolderID    string      `json:"holder_id"`
	Tickets     int         `json:"tickets"`
	UnitPrice   money.Money `json:"unit_price"`
	TotalAmount money.Money `json:"total_amount"`
	ProofToken  string      `json:"proof_token"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		Reference:   b.Reference,
		EventID:     b.EventID,
		HolderID:    b.HolderID,
		Tickets:     b.Tickets,
		UnitPrice:   b.UnitPrice,
		TotalAmount: b.TotalAmount,
		ProofToken:  b.ProofToken,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

// HandleCreateBooking returns an HTTP handler for creating bookings.
func HandleCreateBooking(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.EventID == "" || req.HolderID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "event_id and holder_id are required")
			return
		}
		if req.Tickets <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidQuantity, domain.ErrInvalidQuantity.Error())
			return
		}

		booking, err := svc.CreateBooking(r.Context(), app.CreateBookingInput{
			EventID:  req.EventID,
			HolderID: req.HolderID,
			Tickets:  req.Tickets,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBookingResponse(booking))
	}
}

// HandleGetBooking returns an HTTP handler for fetching one booking by id.
func HandleGetBooking(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := svc.GetBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(booking))
	}
}

// HandleGetBookingByReference resolves a booking from its public reference.
func HandleGetBookingByReference(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := svc.GetBookingByReference(r.Context(), mux.Vars(r)["ref"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(booking))
	}
}

// HandleCancelBooking returns an HTTP handler for cancelling a booking.
func HandleCancelBooking(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := svc.CancelBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(booking))
	}
}

// HandleCompleteBooking returns an HTTP handler for completing a booking.
func HandleCompleteBooking(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := svc.CompleteBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(booking))
	}
}

// HandleListHolderBookings lists a holder's bookings.
func HandleListHolderBookings(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := svc.ListBookingsByHolder(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]bookingResponse, 0, len(bookings))
		for _, b := range bookings {
			resp = append(resp, toBookingResponse(b))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleListEventBookings lists all bookings for an event.
func HandleListEventBookings(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := svc.ListBookingsByEvent(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]bookingResponse, 0, len(bookings))
		for _, b := range bookings {
			resp = append(resp, toBookingResponse(b))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type qrCodeResponse struct {
	BookingID  string `json:"booking_id"`
	ProofToken string `json:"proof_token"`
	QRCodePNG  string `json:"qr_code_png_base64"`
}

// HandleBookingQRCode renders a booking's proof token as a QR code image.
func HandleBookingQRCode(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := svc.GetBooking(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		png, err := token.QRCodeBase64(booking.ProofToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, qrCodeResponse{
			BookingID:  booking.ID,
			ProofToken: booking.ProofToken,
			QRCodePNG:  png,
		})
	}
}
