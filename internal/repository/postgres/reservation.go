package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/repository"

	"github.com/lib/pq"
)

const reservationColumns = `id, item_id, booking_date, start_time, end_time, customer_name, customer_email, customer_phone, status, created_on, updated_on`

// Postgres error codes handled explicitly.
const (
	pqUniqueViolation  = "23505"
	pqLockNotAvailable = "55P03"
)

type reservationRepository struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func NewReservationRepository(db *sql.DB, lockTimeout time.Duration) repository.ReservationRepository {
	return &reservationRepository{db: db, lockTimeout: lockTimeout}
}

func (r *reservationRepository) CreateIfNoConflict(ctx context.Context, res *domain.Reservation) error {
	logger.EnterMethod("reservationRepository.CreateIfNoConflict", "itemID", res.ItemID, "date", res.Date, "range", res.Range().String())

	lockKey, err := dateLockKey(res.Date)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return r.transient("begin", err)
	}
	defer tx.Rollback()

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return r.transient("set lock timeout", err)
		}
	}

	// Writers for the same item and day queue here; others proceed in parallel.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, res.ItemID, lockKey); err != nil {
		return r.transient("advisory lock", err)
	}

	conflictQuery := `SELECT id, start_time, end_time FROM reservations
	                  WHERE item_id = $1 AND booking_date = $2 AND status = 'CONFIRMED'
	                    AND ((start_time <= $3 AND end_time > $3)
	                      OR (start_time < $4 AND end_time >= $4)
	                      OR (start_time >= $3 AND end_time <= $4))
	                  ORDER BY start_time LIMIT 1`
	var conflict domain.SlotConflictError
	err = tx.QueryRowContext(ctx, conflictQuery, res.ItemID, res.Date, res.StartTime, res.EndTime).
		Scan(&conflict.ReservationID, &conflict.Conflicting.Start, &conflict.Conflicting.End)
	switch {
	case err == nil:
		conflict.Requested = res.Range()
		logger.ExitMethod("reservationRepository.CreateIfNoConflict", "conflictWith", conflict.ReservationID)
		return &conflict
	case !errors.Is(err, sql.ErrNoRows):
		return r.transient("conflict check", err)
	}

	insert := `INSERT INTO reservations (item_id, booking_date, start_time, end_time, customer_name, customer_email, customer_phone, status, created_on, updated_on)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	           RETURNING id, created_on, updated_on`
	err = tx.QueryRowContext(ctx, insert, res.ItemID, res.Date, res.StartTime, res.EndTime, res.CustomerName,
		res.CustomerEmail, res.CustomerPhone, res.Status).Scan(&res.ID, &res.CreatedOn, &res.UpdatedOn)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			// Only an exact duplicate trips the unique index.
			return &domain.SlotConflictError{Requested: res.Range(), Conflicting: res.Range()}
		}
		return r.transient("insert", err)
	}

	if err := tx.Commit(); err != nil {
		return r.transient("commit", err)
	}

	logger.ExitMethod("reservationRepository.CreateIfNoConflict", "reservationID", res.ID)
	return nil
}

func (r *reservationRepository) transient(step string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqLockNotAvailable {
		err = fmt.Errorf("lock wait exceeded %s: %w", r.lockTimeout, err)
	}
	logger.ExitMethodWithError("reservationRepository.CreateIfNoConflict", err, "step", step)
	return fmt.Errorf("%w: %s: %w", domain.ErrTransient, step, err)
}

// dateLockKey turns "2026-10-15" into 20261015 for the advisory lock's
// second key.
func dateLockKey(date string) (int32, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int32(d.Year()*10000 + int(d.Month())*100 + d.Day()), nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) Cancel(ctx context.Context, id int32, at time.Time) (*domain.Reservation, error) {
	logger.EnterMethod("reservationRepository.Cancel", "reservationID", id)

	query := `UPDATE reservations SET status = 'CANCELLED', updated_on = $1
	          WHERE id = $2 AND status = 'CONFIRMED'
	          RETURNING ` + reservationColumns
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, at, id))
	if err == nil {
		logger.ExitMethod("reservationRepository.Cancel", "reservationID", id)
		return res, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.ExitMethodWithError("reservationRepository.Cancel", err, "reservationID", id)
		return nil, err
	}

	// Nothing updated: either the row is missing or it was already cancelled.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: booking %d", domain.ErrAlreadyCancelled, id)
}

func (r *reservationRepository) List(ctx context.Context, filter domain.ReservationFilter, page, pageSize int32) ([]domain.Reservation, int32, error) {
	offset := (int64(page) - 1) * int64(pageSize)
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`

	var args []interface{}
	argIdx := 1
	if filter.ItemID != 0 {
		query += fmt.Sprintf(" AND item_id = $%d", argIdx)
		args = append(args, filter.ItemID)
		argIdx++
	}
	if filter.Date != "" {
		query += fmt.Sprintf(" AND booking_date = $%d", argIdx)
		args = append(args, filter.Date)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.CustomerName != "" {
		query += fmt.Sprintf(" AND customer_name ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, filter.CustomerName)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}
	if offset >= int64(count) {
		return nil, count, nil
	}

	query += fmt.Sprintf(" ORDER BY booking_date DESC, start_time, id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	list, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

func (r *reservationRepository) ListConfirmedByItemAndDate(ctx context.Context, itemID int32, date string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE item_id = $1 AND booking_date = $2 AND status = 'CONFIRMED'
	          ORDER BY start_time`
	return r.list(ctx, query, itemID, date)
}

func (r *reservationRepository) ListConfirmedByDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE booking_date = $1 AND status = 'CONFIRMED'
	          ORDER BY item_id, start_time`
	return r.list(ctx, query, date)
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(&res.ID, &res.ItemID, &res.Date, &res.StartTime, &res.EndTime, &res.CustomerName,
		&res.CustomerEmail, &res.CustomerPhone, &res.Status, &res.CreatedOn, &res.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return res, nil
}
