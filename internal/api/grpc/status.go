package grpc

import (
	"context"
	"errors"

	"menu-booking-backend/internal/domain"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts a service error into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeOf(err), err.Error())
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRange):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrNotBookable), errors.Is(err, domain.ErrOutsideAvailability):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrSlotConflict), errors.Is(err, domain.ErrAlreadyCancelled):
		return codes.AlreadyExists
	case errors.Is(err, domain.ErrTransient):
		return codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	}
	return codes.Internal
}
