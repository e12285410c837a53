package storage

import (
	"context"

	"menu-booking-backend/internal/repository"
)

// Store is the persistence backend the services run against. Both the
// in-process memory store and PostgreSQL satisfy it.
type Store interface {
	Items() repository.ItemRepository
	Rules() repository.AvailabilityRuleRepository
	Reservations() repository.ReservationRepository

	// Ping reports whether the backend can serve requests.
	Ping(ctx context.Context) error
	Close() error
}
