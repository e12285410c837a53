package logger

import (
	"errors"

	"menu-booking-backend/internal/domain"
)

var expectedErrors = []error{
	domain.ErrNotFound,
	domain.ErrNotBookable,
	domain.ErrInvalidRange,
	domain.ErrInvalidInput,
	domain.ErrOutsideAvailability,
	domain.ErrSlotConflict,
	domain.ErrAlreadyCancelled,
}

// isExpected reports whether err is a caller-facing outcome rather than a
// fault in the service.
func isExpected(err error) bool {
	for _, target := range expectedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
