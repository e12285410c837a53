package storage

import (
	"context"
	"database/sql"
	"fmt"

	"menu-booking-backend/internal/config"
	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/repository"
	"menu-booking-backend/internal/repository/memory"
	"menu-booking-backend/internal/repository/postgres"
)

// Open builds the store selected by cfg.Database.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Info("Using in-memory store", "seed_items", len(cfg.Memory.SeedItems))
		return NewMemory(cfg), nil
	case "postgres":
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}
}

// NewMemory builds a memory store seeded from cfg.Memory.
func NewMemory(cfg *config.Config) Store {
	items := make([]domain.Item, 0, len(cfg.Memory.SeedItems))
	for _, s := range cfg.Memory.SeedItems {
		items = append(items, domain.Item{ID: s.ID, Name: s.Name, IsBookable: s.IsBookable})
	}
	return &memoryStore{Store: memory.NewStore(items, cfg.LockTimeout())}
}

func openPostgres(ctx context.Context, cfg *config.Config) (Store, error) {
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

	if cfg.Database.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return NewPostgres(db, cfg), nil
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB, cfg *config.Config) Store {
	return &postgresStore{Store: postgres.NewStore(db, cfg.LockTimeout()), db: db}
}

type memoryStore struct {
	*memory.Store
}

func (s *memoryStore) Items() repository.ItemRepository { return s.ItemRepository }

func (s *memoryStore) Rules() repository.AvailabilityRuleRepository {
	return s.AvailabilityRuleRepository
}

func (s *memoryStore) Reservations() repository.ReservationRepository {
	return s.ReservationRepository
}

func (s *memoryStore) Close() error { return nil }

type postgresStore struct {
	*postgres.Store
	db *sql.DB
}

func (s *postgresStore) Items() repository.ItemRepository { return s.ItemRepository }

func (s *postgresStore) Rules() repository.AvailabilityRuleRepository {
	return s.AvailabilityRuleRepository
}

func (s *postgresStore) Reservations() repository.ReservationRepository {
	return s.ReservationRepository
}

func (s *postgresStore) Close() error { return s.db.Close() }
