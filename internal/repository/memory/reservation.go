package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/repository"
)

type ReservationRepository struct {
	lockTimeout time.Duration

	locksMu sync.Mutex
	locks   map[string]*dayLock

	mu     sync.RWMutex
	nextID int32
	rows   map[int32]domain.Reservation
}

// dayLock is a one-element semaphore for an item-day. refs counts the holder
// plus waiters; the entry is dropped when it reaches zero.
type dayLock struct {
	ch   chan struct{}
	refs int
}

func NewReservationRepository(lockTimeout time.Duration) *ReservationRepository {
	return &ReservationRepository{
		lockTimeout: lockTimeout,
		locks:       make(map[string]*dayLock),
		rows:        make(map[int32]domain.Reservation),
	}
}

func lockKey(itemID int32, date string) string {
	return fmt.Sprintf("%d:%s", itemID, date)
}

// slot returns the semaphore guarding an item-day and registers the caller.
// Every call must be paired with unref.
func (r *ReservationRepository) slot(key string) *dayLock {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &dayLock{ch: make(chan struct{}, 1)}
		r.locks[key] = l
	}
	l.refs++
	return l
}

func (r *ReservationRepository) unref(key string, l *dayLock) {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, key)
	}
}

func (r *ReservationRepository) acquire(ctx context.Context, itemID int32, date string) (func(), error) {
	key := lockKey(itemID, date)
	l := r.slot(key)

	var expired <-chan time.Time
	if r.lockTimeout > 0 {
		t := time.NewTimer(r.lockTimeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			r.unref(key, l)
		}, nil
	case <-ctx.Done():
		r.unref(key, l)
		return nil, fmt.Errorf("%w: waiting for %d on %s: %w", domain.ErrTransient, itemID, date, ctx.Err())
	case <-expired:
		r.unref(key, l)
		return nil, fmt.Errorf("%w: lock wait for %d on %s exceeded %s", domain.ErrTransient, itemID, date, r.lockTimeout)
	}
}

func (r *ReservationRepository) CreateIfNoConflict(ctx context.Context, res *domain.Reservation) error {
	release, err := r.acquire(ctx, res.ItemID, res.Date)
	if err != nil {
		return err
	}
	defer release()

	requested := res.Range()
	if conflict := r.firstConflict(res.ItemID, res.Date, requested); conflict != nil {
		return &domain.SlotConflictError{
			ReservationID: conflict.ID,
			Requested:     requested,
			Conflicting:   conflict.Range(),
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now()
	res.ID = r.nextID
	res.CreatedOn = now
	res.UpdatedOn = now
	r.rows[res.ID] = *res
	return nil
}

func (r *ReservationRepository) firstConflict(itemID int32, date string, requested domain.TimeRange) *domain.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *domain.Reservation
	for _, row := range r.rows {
		if row.ItemID != itemID || row.Date != date || row.Status != domain.ReservationStatusConfirmed {
			continue
		}
		if !requested.Overlaps(row.Range()) {
			continue
		}
		if found == nil || row.StartTime < found.StartTime {
			found = &row
		}
	}
	return found
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return &row, nil
}

func (r *ReservationRepository) Cancel(ctx context.Context, id int32, at time.Time) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	if err := row.Cancel(at); err != nil {
		return nil, err
	}
	r.rows[id] = row
	return &row, nil
}

func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationFilter, page, pageSize int32) ([]domain.Reservation, int32, error) {
	name := strings.ToLower(filter.CustomerName)
	matched := r.collect(func(row domain.Reservation) bool {
		return (filter.ItemID == 0 || row.ItemID == filter.ItemID) &&
			(filter.Date == "" || row.Date == filter.Date) &&
			(filter.Status == "" || row.Status == filter.Status) &&
			(name == "" || strings.Contains(strings.ToLower(row.CustomerName), name))
	})
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	start := (int64(page) - 1) * int64(pageSize)
	if start >= total {
		return nil, int32(total), nil
	}
	end := start + int64(pageSize)
	if end > total {
		end = total
	}
	return matched[start:end], int32(total), nil
}

func (r *ReservationRepository) ListConfirmedByItemAndDate(ctx context.Context, itemID int32, date string) ([]domain.Reservation, error) {
	out := r.collect(func(row domain.Reservation) bool {
		return row.ItemID == itemID && row.Date == date && row.Status == domain.ReservationStatusConfirmed
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *ReservationRepository) ListConfirmedByDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	out := r.collect(func(row domain.Reservation) bool {
		return row.Date == date && row.Status == domain.ReservationStatusConfirmed
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *ReservationRepository) collect(keep func(domain.Reservation) bool) []domain.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Reservation
	for _, row := range r.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

var _ repository.ReservationRepository = (*ReservationRepository)(nil)
