package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(strings.ToUpper(s)) {
	case ReservationStatusConfirmed:
		return ReservationStatusConfirmed, nil
	case ReservationStatusCancelled:
		return ReservationStatusCancelled, nil
	}
	return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, s)
}

type Reservation struct {
	ID            int32             `json:"id"`
	ItemID        int32             `json:"itemId"`
	Date          string            `json:"date"`
	StartTime     TimeOfDay         `json:"startTime"`
	EndTime       TimeOfDay         `json:"endTime"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail *string           `json:"customerEmail,omitempty"`
	CustomerPhone *string           `json:"customerPhone,omitempty"`
	Status        ReservationStatus `json:"status"`
	CreatedOn     time.Time         `json:"createdOn"`
	UpdatedOn     time.Time         `json:"updatedOn"`
}

func (r *Reservation) Range() TimeRange {
	return TimeRange{Start: r.StartTime, End: r.EndTime}
}

// Cancel moves a confirmed reservation to CANCELLED. CANCELLED is terminal.
func (r *Reservation) Cancel(now time.Time) error {
	if r.Status == ReservationStatusCancelled {
		return fmt.Errorf("%w: booking %d", ErrAlreadyCancelled, r.ID)
	}
	r.Status = ReservationStatusCancelled
	r.UpdatedOn = now
	return nil
}

// BookingRequest is the raw caller input for a new reservation.
type BookingRequest struct {
	ItemID        int32
	Date          string
	StartTime     string
	EndTime       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Normalize validates the request and builds the unsaved reservation.
// The returned date is the parsed calendar day.
func (req BookingRequest) Normalize() (*Reservation, time.Time, error) {
	day, err := ParseDate(req.Date)
	if err != nil {
		return nil, time.Time{}, err
	}
	rng, err := NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, time.Time{}, err
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, time.Time{}, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	r := &Reservation{
		ItemID:       req.ItemID,
		Date:         day.Format(DateLayout),
		StartTime:    rng.Start,
		EndTime:      rng.End,
		CustomerName: name,
		Status:       ReservationStatusConfirmed,
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: customer email %q is malformed", ErrInvalidInput, email)
		}
		r.CustomerEmail = &email
	}
	if phone := strings.TrimSpace(req.CustomerPhone); phone != "" {
		r.CustomerPhone = &phone
	}
	return r, day, nil
}

// ReservationFilter narrows ListBookings. Zero values mean "any".
type ReservationFilter struct {
	ItemID       int32
	Date         string
	Status       ReservationStatus
	CustomerName string
}
