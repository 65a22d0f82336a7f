package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Services bundles everything the router exposes.
type Services interface {
	BookingService
	EntryService
	QuoteService
	RevenueService
}

// NewRouter wires all endpoints. Middleware (CORS, request logging) is
// layered on by the caller.
func NewRouter(bookings Services, events EventAdminService) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)

	r.Handle("/bookings", HandleCreateBooking(bookings)).Methods(http.MethodPost)
	r.Handle("/bookings/by-reference/{ref}", HandleGetBookingByReference(bookings)).Methods(http.MethodGet)
	r.Handle("/bookings/{id}", HandleGetBooking(bookings)).Methods(http.MethodGet)
	r.Handle("/bookings/{id}/cancel", HandleCancelBooking(bookings)).Methods(http.MethodPost)
	r.Handle("/bookings/{id}/complete", HandleCompleteBooking(bookings)).Methods(http.MethodPost)
	r.Handle("/bookings/{id}/qrcode", HandleBookingQRCode(bookings)).Methods(http.MethodGet)

	r.Handle("/holders/{id}/bookings", HandleListHolderBookings(bookings)).Methods(http.MethodGet)

	r.Handle("/entry/verify", HandleVerifyEntry(bookings)).Methods(http.MethodPost)
	r.Handle("/entry/redeem", HandleRedeemEntry(bookings)).Methods(http.MethodPost)

	r.Handle("/events/{id}/quote", HandleGetQuote(bookings)).Methods(http.MethodGet)
	r.Handle("/events/{id}/bookings", HandleListEventBookings(bookings)).Methods(http.MethodGet)

	r.Handle("/admin/events", HandleCreateEvent(events)).Methods(http.MethodPost)
	r.Handle("/admin/events", HandleListEvents(events)).Methods(http.MethodGet)
	r.Handle("/admin/events/{id}", HandleGetEvent(events)).Methods(http.MethodGet)
	r.Handle("/admin/events/{id}", HandleDeleteEvent(events)).Methods(http.MethodDelete)
	r.Handle("/admin/revenue", HandleRevenue(bookings)).Methods(http.MethodGet)

	r.NotFoundHandler = NotFoundHandler()
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	return r
}
