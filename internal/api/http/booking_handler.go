package http

import (
	"fmt"
	"net/http"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	ItemID        int32  `json:"itemId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ItemID <= 0 {
		writeError(w, r, fmt.Errorf("%w: itemId is required", domain.ErrInvalidInput))
		return
	}

	res, err := h.bookings.CreateBooking(r.Context(), domain.BookingRequest{
		ItemID:        req.ItemID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/v1/bookings/%d", res.ID))
	writeJSON(w, http.StatusCreated, res)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.ReservationFilter
	var err error

	if raw := q.Get("itemId"); raw != "" {
		if filter.ItemID, err = parseID(raw, "itemId"); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if raw := q.Get("status"); raw != "" {
		if filter.Status, err = domain.ParseReservationStatus(raw); err != nil {
			writeError(w, r, err)
			return
		}
	}
	filter.Date = q.Get("date")
	filter.CustomerName = q.Get("customerName")

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.bookings.ListBookings(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.bookings.CancelBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *BookingHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, r, fmt.Errorf("%w: date query parameter is required", domain.ErrInvalidInput))
		return
	}
	slots, err := h.bookings.GetAvailableSlots(r.Context(), itemID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
