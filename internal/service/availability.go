package service

import (
	"context"
	"fmt"
	"time"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/repository"
)

type availabilityService struct {
	itemRepo repository.ItemRepository
	ruleRepo repository.AvailabilityRuleRepository
}

func NewAvailabilityService(itemRepo repository.ItemRepository, ruleRepo repository.AvailabilityRuleRepository) AvailabilityService {
	return &availabilityService{itemRepo: itemRepo, ruleRepo: ruleRepo}
}

func (s *availabilityService) CreateRule(ctx context.Context, itemID int32, day domain.DayOfWeek, startTime, endTime string) (*domain.AvailabilityRule, error) {
	logger.EnterMethod("availabilityService.CreateRule", "itemID", itemID, "day", day, "start", startTime, "end", endTime)

	day, err := domain.ParseDayOfWeek(string(day))
	if err != nil {
		return nil, err
	}
	rng, err := domain.NewTimeRange(startTime, endTime)
	if err != nil {
		return nil, err
	}
	if _, err := bookableItem(ctx, s.itemRepo, itemID); err != nil {
		logger.ExitMethodWithError("availabilityService.CreateRule", err, "itemID", itemID)
		return nil, err
	}

	rule := &domain.AvailabilityRule{
		ItemID:    itemID,
		DayOfWeek: day,
		StartTime: rng.Start,
		EndTime:   rng.End,
		IsActive:  true,
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		logger.ExitMethodWithError("availabilityService.CreateRule", err, "itemID", itemID)
		return nil, fmt.Errorf("failed to create availability rule: %w", err)
	}

	logger.ExitMethod("availabilityService.CreateRule", "ruleID", rule.ID)
	return rule, nil
}

func (s *availabilityService) UpdateRule(ctx context.Context, ruleID int32, upd domain.RuleUpdate) (*domain.AvailabilityRule, error) {
	logger.EnterMethod("availabilityService.UpdateRule", "ruleID", ruleID)

	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(rule); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		logger.ExitMethodWithError("availabilityService.UpdateRule", err, "ruleID", ruleID)
		return nil, err
	}

	logger.ExitMethod("availabilityService.UpdateRule", "ruleID", ruleID)
	return rule, nil
}

func (s *availabilityService) DeactivateRule(ctx context.Context, ruleID int32) (*domain.AvailabilityRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if !rule.IsActive {
		return rule, nil
	}
	rule.IsActive = false
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	logger.Info("Availability rule deactivated", "ruleID", ruleID, "itemID", rule.ItemID)
	return rule, nil
}

func (s *availabilityService) ListRules(ctx context.Context, itemID int32, includeInactive bool) ([]domain.AvailabilityRule, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.ruleRepo.ListByItem(ctx, itemID, includeInactive)
}

func (s *availabilityService) IsWithinAvailability(ctx context.Context, itemID int32, date time.Time, rng domain.TimeRange) (bool, error) {
	_, rules, err := s.ActiveRulesOn(ctx, itemID, date)
	if err != nil {
		return false, err
	}
	for _, rule := range rules {
		if rule.Range().Contains(rng) {
			return true, nil
		}
	}
	return false, nil
}

func (s *availabilityService) ActiveRulesOn(ctx context.Context, itemID int32, date time.Time) (domain.DayOfWeek, []domain.AvailabilityRule, error) {
	day := domain.DayOfWeekOf(date)
	rules, err := s.ruleRepo.ListActiveByItemAndDay(ctx, itemID, day)
	if err != nil {
		return day, nil, err
	}
	return day, rules, nil
}

// bookableItem loads an item and rejects one that cannot take bookings.
func bookableItem(ctx context.Context, items repository.ItemRepository, itemID int32) (*domain.Item, error) {
	item, err := items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsBookable {
		return nil, fmt.Errorf("%w: item %d", domain.ErrNotBookable, itemID)
	}
	return item, nil
}
