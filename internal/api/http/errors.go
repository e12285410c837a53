package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

var errorKinds = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotBookable, http.StatusUnprocessableEntity, "NOT_BOOKABLE"},
	{domain.ErrInvalidRange, http.StatusBadRequest, "INVALID_RANGE"},
	{domain.ErrOutsideAvailability, http.StatusUnprocessableEntity, "OUTSIDE_AVAILABILITY"},
	{domain.ErrSlotConflict, http.StatusConflict, "SLOT_CONFLICT"},
	{domain.ErrAlreadyCancelled, http.StatusConflict, "ALREADY_CANCELLED"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrTransient, http.StatusServiceUnavailable, "TEMPORARILY_UNAVAILABLE"},
}

// writeError maps a service error onto a status code and error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, kind := range errorKinds {
		if !errors.Is(err, kind.target) {
			continue
		}
		body := errorBody{Error: errorPayload{Code: kind.code, Message: err.Error()}}

		var conflict *domain.SlotConflictError
		if errors.As(err, &conflict) {
			body.Error.Details = map[string]any{
				"conflictingReservationId": conflict.ReservationID,
				"conflictingStartTime":     conflict.Conflicting.Start,
				"conflictingEndTime":       conflict.Conflicting.End,
			}
		}
		if kind.status == http.StatusServiceUnavailable {
			body.Error.Message = "booking store is busy, please retry"
			w.Header().Set("Retry-After", "1")
			logger.WarnContext(r.Context(), "Transient booking failure", "path", r.URL.Path, "error", err)
		}
		writeJSON(w, kind.status, body)
		return
	}

	logger.ErrorContext(r.Context(), "Unhandled request error", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorPayload{Code: "INTERNAL", Message: "internal server error"}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
