package service

import (
	"context"
	"time"

	"menu-booking-backend/internal/domain"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/mock"
)

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, r *domain.Reservation, itemName string) error {
	args := m.Called(ctx, r, itemName)
	return args.Error(0)
}

func (m *MockEmailService) SendBookingCancellation(ctx context.Context, r *domain.Reservation, itemName string) error {
	args := m.Called(ctx, r, itemName)
	return args.Error(0)
}

func (m *MockEmailService) SendBookingReminder(ctx context.Context, r *domain.Reservation, itemName string) error {
	args := m.Called(ctx, r, itemName)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) CreateIfNoConflict(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) Cancel(ctx context.Context, id int32, at time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) List(ctx context.Context, filter domain.ReservationFilter, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}

func (m *MockReservationRepo) ListConfirmedByItemAndDate(ctx context.Context, itemID int32, date string) ([]domain.Reservation, error) {
	args := m.Called(ctx, itemID, date)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListConfirmedByDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rest.Response), args.Error(1)
}
