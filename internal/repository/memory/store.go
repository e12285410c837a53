package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/repository"
)

// Store keeps everything in process memory. It backs local runs and tests.
type Store struct {
	*ItemRepository
	*AvailabilityRuleRepository
	*ReservationRepository
}

func NewStore(items []domain.Item, lockTimeout time.Duration) *Store {
	return &Store{
		ItemRepository:             NewItemRepository(items...),
		AvailabilityRuleRepository: NewAvailabilityRuleRepository(),
		ReservationRepository:      NewReservationRepository(lockTimeout),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

type ItemRepository struct {
	mu    sync.RWMutex
	items map[int32]domain.Item
}

func NewItemRepository(items ...domain.Item) *ItemRepository {
	r := &ItemRepository{items: make(map[int32]domain.Item)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

// Put inserts or replaces a catalog item.
func (r *ItemRepository) Put(it domain.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it
}

func (r *ItemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok || it.DeletedOn != nil {
		return nil, fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	return &it, nil
}

type AvailabilityRuleRepository struct {
	mu     sync.RWMutex
	nextID int32
	rules  map[int32]domain.AvailabilityRule
}

func NewAvailabilityRuleRepository() *AvailabilityRuleRepository {
	return &AvailabilityRuleRepository{rules: make(map[int32]domain.AvailabilityRule)}
}

func (r *AvailabilityRuleRepository) Create(ctx context.Context, rule *domain.AvailabilityRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now()
	rule.ID = r.nextID
	rule.CreatedOn = now
	rule.UpdatedOn = now
	r.rules[rule.ID] = *rule
	return nil
}

func (r *AvailabilityRuleRepository) GetByID(ctx context.Context, id int32) (*domain.AvailabilityRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, fmt.Errorf("%w: availability rule %d", domain.ErrNotFound, id)
	}
	return &rule, nil
}

func (r *AvailabilityRuleRepository) Update(ctx context.Context, rule *domain.AvailabilityRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rules[rule.ID]
	if !ok {
		return fmt.Errorf("%w: availability rule %d", domain.ErrNotFound, rule.ID)
	}
	rule.ItemID = existing.ItemID
	rule.CreatedOn = existing.CreatedOn
	rule.UpdatedOn = time.Now()
	r.rules[rule.ID] = *rule
	return nil
}

func (r *AvailabilityRuleRepository) ListByItem(ctx context.Context, itemID int32, includeInactive bool) ([]domain.AvailabilityRule, error) {
	return r.filter(func(rule domain.AvailabilityRule) bool {
		return rule.ItemID == itemID && (includeInactive || rule.IsActive)
	}), nil
}

func (r *AvailabilityRuleRepository) ListActiveByItemAndDay(ctx context.Context, itemID int32, day domain.DayOfWeek) ([]domain.AvailabilityRule, error) {
	return r.filter(func(rule domain.AvailabilityRule) bool {
		return rule.ItemID == itemID && rule.DayOfWeek == day && rule.IsActive
	}), nil
}

func (r *AvailabilityRuleRepository) filter(keep func(domain.AvailabilityRule) bool) []domain.AvailabilityRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.AvailabilityRule
	for _, rule := range r.rules {
		if keep(rule) {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DayOfWeek != b.DayOfWeek {
			return dayIndex(a.DayOfWeek) < dayIndex(b.DayOfWeek)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
	return out
}

func dayIndex(d domain.DayOfWeek) int {
	for i, wd := range []domain.DayOfWeek{domain.Sunday, domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday, domain.Saturday} {
		if wd == d {
			return i
		}
	}
	return 7
}

var (
	_ repository.AvailabilityRuleRepository = (*AvailabilityRuleRepository)(nil)
	_ repository.ItemRepository             = (*ItemRepository)(nil)
)
