package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/repository"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
	repository.ItemRepository
	repository.AvailabilityRuleRepository
	repository.ReservationRepository
}

// NewStore wires every repository over db. lockTimeout bounds how long a
// booking waits for the per item-day lock; zero means wait indefinitely.
func NewStore(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{
		db:                         db,
		ItemRepository:             NewItemRepository(db),
		AvailabilityRuleRepository: NewAvailabilityRuleRepository(db),
		ReservationRepository:      NewReservationRepository(db, lockTimeout),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema applies the embedded schema. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("EnsureSchema", "schema.sql")
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.DatabaseResult("EnsureSchema", 0, err)
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.DatabaseResult("EnsureSchema", 0, nil)
	return nil
}
