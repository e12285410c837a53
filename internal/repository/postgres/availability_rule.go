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
)

const ruleColumns = `id, item_id, day_of_week, start_time, end_time, is_active, created_on, updated_on`

type availabilityRuleRepository struct {
	db *sql.DB
}

func NewAvailabilityRuleRepository(db *sql.DB) repository.AvailabilityRuleRepository {
	return &availabilityRuleRepository{db: db}
}

func (r *availabilityRuleRepository) Create(ctx context.Context, rule *domain.AvailabilityRule) error {
	logger.EnterMethod("availabilityRuleRepository.Create", "itemID", rule.ItemID, "day", rule.DayOfWeek)

	query := `INSERT INTO availability_rules (item_id, day_of_week, start_time, end_time, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, rule.ItemID, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.IsActive, now, now).Scan(&rule.ID)
	if err != nil {
		logger.ExitMethodWithError("availabilityRuleRepository.Create", err, "itemID", rule.ItemID)
		return err
	}
	rule.CreatedOn = now
	rule.UpdatedOn = now

	logger.ExitMethod("availabilityRuleRepository.Create", "ruleID", rule.ID)
	return nil
}

func (r *availabilityRuleRepository) GetByID(ctx context.Context, id int32) (*domain.AvailabilityRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM availability_rules WHERE id = $1`
	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: availability rule %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *availabilityRuleRepository) Update(ctx context.Context, rule *domain.AvailabilityRule) error {
	logger.EnterMethod("availabilityRuleRepository.Update", "ruleID", rule.ID)

	query := `UPDATE availability_rules SET day_of_week=$1, start_time=$2, end_time=$3, is_active=$4, updated_on=$5 WHERE id=$6`
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.IsActive, now, rule.ID)
	if err != nil {
		logger.ExitMethodWithError("availabilityRuleRepository.Update", err, "ruleID", rule.ID)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: availability rule %d", domain.ErrNotFound, rule.ID)
	}
	rule.UpdatedOn = now

	logger.ExitMethod("availabilityRuleRepository.Update", "ruleID", rule.ID)
	return nil
}

func (r *availabilityRuleRepository) ListByItem(ctx context.Context, itemID int32, includeInactive bool) ([]domain.AvailabilityRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM availability_rules WHERE item_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY CASE day_of_week
	             WHEN 'SUNDAY' THEN 0 WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3
	             WHEN 'THURSDAY' THEN 4 WHEN 'FRIDAY' THEN 5 ELSE 6 END, start_time, id`
	return r.list(ctx, query, itemID)
}

func (r *availabilityRuleRepository) ListActiveByItemAndDay(ctx context.Context, itemID int32, day domain.DayOfWeek) ([]domain.AvailabilityRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM availability_rules
	          WHERE item_id = $1 AND day_of_week = $2 AND is_active = TRUE
	          ORDER BY start_time, id`
	return r.list(ctx, query, itemID, day)
}

func (r *availabilityRuleRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.AvailabilityRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.AvailabilityRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.AvailabilityRule, error) {
	rule := &domain.AvailabilityRule{}
	err := row.Scan(&rule.ID, &rule.ItemID, &rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.IsActive, &rule.CreatedOn, &rule.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rule, nil
}
