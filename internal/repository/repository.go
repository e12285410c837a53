package repository

import (
	"context"
	"time"

	"menu-booking-backend/internal/domain"
)

// ItemRepository is the read-only catalog boundary. A soft-deleted item is
// reported as domain.ErrNotFound.
type ItemRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
}

type AvailabilityRuleRepository interface {
	Create(ctx context.Context, rule *domain.AvailabilityRule) error
	GetByID(ctx context.Context, id int32) (*domain.AvailabilityRule, error)
	Update(ctx context.Context, rule *domain.AvailabilityRule) error
	ListByItem(ctx context.Context, itemID int32, includeInactive bool) ([]domain.AvailabilityRule, error)
	ListActiveByItemAndDay(ctx context.Context, itemID int32, day domain.DayOfWeek) ([]domain.AvailabilityRule, error)
}

type ReservationRepository interface {
	// CreateIfNoConflict checks for an overlapping CONFIRMED reservation on
	// the same item and date and inserts r in one atomic step. A conflict is
	// returned as *domain.SlotConflictError; any other failure is wrapped in
	// domain.ErrTransient. Nothing is written unless nil is returned.
	CreateIfNoConflict(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	// Cancel flips a CONFIRMED reservation to CANCELLED and returns the
	// updated row.
	Cancel(ctx context.Context, id int32, at time.Time) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListConfirmedByItemAndDate(ctx context.Context, itemID int32, date string) ([]domain.Reservation, error)
	ListConfirmedByDate(ctx context.Context, date string) ([]domain.Reservation, error)
}
