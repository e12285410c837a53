package service

import (
	"context"
	"time"

	"menu-booking-backend/internal/domain"
)

type AvailabilityService interface {
	CreateRule(ctx context.Context, itemID int32, day domain.DayOfWeek, startTime, endTime string) (*domain.AvailabilityRule, error)
	UpdateRule(ctx context.Context, ruleID int32, upd domain.RuleUpdate) (*domain.AvailabilityRule, error)
	DeactivateRule(ctx context.Context, ruleID int32) (*domain.AvailabilityRule, error)
	ListRules(ctx context.Context, itemID int32, includeInactive bool) ([]domain.AvailabilityRule, error)

	// IsWithinAvailability reports whether a single active rule for the
	// date's weekday fully contains rng. No rule means false, not an error.
	IsWithinAvailability(ctx context.Context, itemID int32, date time.Time, rng domain.TimeRange) (bool, error)
	ActiveRulesOn(ctx context.Context, itemID int32, date time.Time) (domain.DayOfWeek, []domain.AvailabilityRule, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Reservation, error)
	GetBooking(ctx context.Context, id int32) (*domain.Reservation, error)
	ListBookings(ctx context.Context, filter domain.ReservationFilter, page, limit int32) (*BookingPage, error)
	CancelBooking(ctx context.Context, id int32) (*domain.Reservation, error)
	GetAvailableSlots(ctx context.Context, itemID int32, date string) (*domain.DaySlots, error)
}

// BookingPage is one page of ListBookings.
type BookingPage struct {
	Items      []domain.Reservation `json:"items"`
	Page       int32                `json:"page"`
	Limit      int32                `json:"limit"`
	Total      int32                `json:"total"`
	TotalPages int32                `json:"totalPages"`
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, r *domain.Reservation, itemName string) error
	SendBookingCancellation(ctx context.Context, r *domain.Reservation, itemName string) error
	SendBookingReminder(ctx context.Context, r *domain.Reservation, itemName string) error
}

// EventPublisher emits booking lifecycle events after a commit.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}
