package service

import (
	"context"
	"fmt"
	"time"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// DefaultNotifyTimeout bounds the event publish and e-mail that follow a
	// committed booking change.
	DefaultNotifyTimeout = 3 * time.Second
)

type bookingService struct {
	itemRepo        repository.ItemRepository
	reservationRepo repository.ReservationRepository
	availability    AvailabilityService
	emailSvc        EmailService
	events          EventPublisher
	notifyTimeout   time.Duration
}

func NewBookingService(itemRepo repository.ItemRepository, reservationRepo repository.ReservationRepository, availability AvailabilityService, emailSvc EmailService, events EventPublisher) BookingService {
	return &bookingService{
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
		emailSvc:        emailSvc,
		events:          events,
		notifyTimeout:   DefaultNotifyTimeout,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Reservation, error) {
	logger.EnterMethod("bookingService.CreateBooking", "itemID", req.ItemID, "date", req.Date, "start", req.StartTime, "end", req.EndTime)

	res, day, err := req.Normalize()
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "itemID", req.ItemID)
		return nil, err
	}

	item, err := bookableItem(ctx, s.itemRepo, res.ItemID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "itemID", req.ItemID)
		return nil, err
	}

	rng := res.Range()
	ok, err := s.availability.IsWithinAvailability(ctx, res.ItemID, day, rng)
	if err != nil {
		return nil, err
	}
	if !ok {
		err := fmt.Errorf("%w: %s %s is not within any availability window for item %d",
			domain.ErrOutsideAvailability, domain.DayOfWeekOf(day), rng, res.ItemID)
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "itemID", req.ItemID)
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.CreateIfNoConflict(ctx, res); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "itemID", req.ItemID)
		return nil, err
	}

	s.afterCommit(ctx, domain.BookingEventConfirmed, res, item.Name)

	logger.ExitMethod("bookingService.CreateBooking", "reservationID", res.ID)
	return res, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int32) (*domain.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

func (s *bookingService) ListBookings(ctx context.Context, filter domain.ReservationFilter, page, limit int32) (*BookingPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if filter.Date != "" {
		if _, err := domain.ParseDate(filter.Date); err != nil {
			return nil, err
		}
	}

	items, total, err := s.reservationRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Reservation{}
	}
	return &BookingPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id int32) (*domain.Reservation, error) {
	logger.EnterMethod("bookingService.CancelBooking", "reservationID", id)

	res, err := s.reservationRepo.Cancel(ctx, id, time.Now())
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "reservationID", id)
		return nil, err
	}

	itemName := fmt.Sprintf("item #%d", res.ItemID)
	if item, err := s.itemRepo.GetByID(ctx, res.ItemID); err == nil {
		itemName = item.Name
	}
	s.afterCommit(ctx, domain.BookingEventCancelled, res, itemName)

	logger.ExitMethod("bookingService.CancelBooking", "reservationID", id)
	return res, nil
}

func (s *bookingService) GetAvailableSlots(ctx context.Context, itemID int32, date string) (*domain.DaySlots, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := bookableItem(ctx, s.itemRepo, itemID); err != nil {
		return nil, err
	}

	weekday, rules, err := s.availability.ActiveRulesOn(ctx, itemID, day)
	if err != nil {
		return nil, err
	}
	slots := &domain.DaySlots{
		ItemID:            itemID,
		Date:              day.Format(domain.DateLayout),
		DayOfWeek:         weekday,
		AvailabilityRules: []domain.AvailabilityRule{},
		BookedSlots:       []domain.BookedSlot{},
		AvailableSlots:    []domain.TimeRange{},
	}
	if len(rules) == 0 {
		return slots, nil
	}

	bookings, err := s.reservationRepo.ListConfirmedByItemAndDate(ctx, itemID, slots.Date)
	if err != nil {
		return nil, err
	}
	slots.AvailabilityRules = rules
	slots.BookedSlots = domain.BookedSlotsOf(bookings)
	slots.AvailableSlots = domain.ComputeAvailableSlots(rules, bookings)
	return slots, nil
}

// afterCommit publishes the lifecycle event and notifies the customer.
// Both are best-effort: the booking state is already durable.
func (s *bookingService) afterCommit(ctx context.Context, eventType domain.BookingEventType, res *domain.Reservation, itemName string) {
	// The change is committed; a caller hanging up must not cut notification short.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	event := domain.NewBookingEvent(eventType, res, time.Now())
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish booking event", "type", eventType, "reservationID", res.ID, "error", err)
	}

	if res.CustomerEmail == nil {
		return
	}
	var err error
	switch eventType {
	case domain.BookingEventConfirmed:
		err = s.emailSvc.SendBookingConfirmation(ctx, res, itemName)
	case domain.BookingEventCancelled:
		err = s.emailSvc.SendBookingCancellation(ctx, res, itemName)
	}
	if err != nil {
		logger.Warn("Failed to send booking email", "type", eventType, "reservationID", res.ID, "error", err)
	}
}
