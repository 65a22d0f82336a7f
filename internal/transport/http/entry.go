package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/app"
)

// EntryService is the minimal interface the gate endpoints need.
type EntryService interface {
	VerifyEntry(ctx context.Context, proofToken string) (app.VerificationResult, error)
	RedeemEntry(ctx context.Context, proofToken string) (app.VerificationResult, error)
}

type entryRequest struct {
	ProofToken string `json:"proof_token"`
}

type entryResponse struct {
	Valid   bool             `json:"valid"`
	Booking *bookingResponse `json:"booking,omitempty"`
}

// HandleVerifyEntry checks a proof token without consuming it.
func HandleVerifyEntry(svc EntryService) http.HandlerFunc {
	return entryHandler(svc.VerifyEntry)
}

// HandleRedeemEntry checks a proof token and consumes it for entry, so a
// second scan of the same token is rejected.
func HandleRedeemEntry(svc EntryService) http.HandlerFunc {
	return entryHandler(svc.RedeemEntry)
}

func entryHandler(check func(ctx context.Context, proofToken string) (app.VerificationResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil || req.ProofToken == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "proof_token is required")
			return
		}

		result, err := check(r.Context(), req.ProofToken)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := entryResponse{Valid: result.Valid}
		if result.Booking != nil {
			b := toBookingResponse(*result.Booking)
			resp.Booking = &b
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
