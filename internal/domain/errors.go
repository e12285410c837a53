package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrNotBookable         = errors.New("item is not bookable")
	ErrInvalidRange        = errors.New("invalid time range")
	ErrOutsideAvailability = errors.New("outside availability")
	ErrSlotConflict        = errors.New("slot conflict")
	ErrAlreadyCancelled    = errors.New("booking already cancelled")
	ErrInvalidInput        = errors.New("invalid input")

	// ErrTransient marks storage failures during the booking transaction.
	// Retrying the same request may succeed.
	ErrTransient = errors.New("temporary booking failure")
)

// SlotConflictError names the confirmed reservation that blocked a booking.
type SlotConflictError struct {
	ReservationID int32
	Requested     TimeRange
	Conflicting   TimeRange
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict: %s overlaps confirmed booking %d (%s)", e.Requested, e.ReservationID, e.Conflicting)
}

func (e *SlotConflictError) Unwrap() error {
	return ErrSlotConflict
}
