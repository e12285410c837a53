package http

import (
	"context"
	"net/http"

	"menu-booking-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter mounts the REST API and probes behind the standard middleware.
func NewRouter(bookings service.BookingService, availability service.AvailabilityService, ready func(ctx context.Context) error) http.Handler {
	r := mux.NewRouter()
	r.Use(Recover, RequestID, AccessLog)

	health := HealthHandlers{Ready: ready}
	r.HandleFunc("/livez", health.Livez).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.Readyz).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	bh := NewBookingHandler(bookings)
	api.HandleFunc("/bookings", bh.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bh.List).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", bh.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", bh.Cancel).Methods(http.MethodPatch)
	api.HandleFunc("/items/{itemId:[0-9]+}/available-slots", bh.AvailableSlots).Methods(http.MethodGet)

	ah := NewAvailabilityHandler(availability)
	api.HandleFunc("/items/{itemId:[0-9]+}/availability-rules", ah.List).Methods(http.MethodGet)
	api.HandleFunc("/availability-rules", ah.Create).Methods(http.MethodPost)
	api.HandleFunc("/availability-rules/{id:[0-9]+}", ah.Update).Methods(http.MethodPatch)
	api.HandleFunc("/availability-rules/{id:[0-9]+}/deactivate", ah.Deactivate).Methods(http.MethodPatch)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorPayload{Code: "NOT_FOUND", Message: "no route for " + req.URL.Path}})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorPayload{Code: "METHOD_NOT_ALLOWED", Message: req.Method + " not allowed on " + req.URL.Path}})
	})
	return r
}
