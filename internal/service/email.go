package service

import (
	"context"
	"fmt"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailSender is the part of the SendGrid client the notifier uses.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid-backed notifier, or a logging no-op
// when apiKey is empty.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, booking emails are disabled")
		return noopEmailService{}
	}
	return newEmailService(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newEmailService(client mailSender, fromEmail, fromName string) *emailService {
	return &emailService{client: client, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, r *domain.Reservation, itemName string) error {
	subject := fmt.Sprintf("Booking confirmed: %s on %s", itemName, r.Date)
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d for %s on %s from %s to %s is confirmed.\n\nSee you soon!",
		r.CustomerName, r.ID, itemName, r.Date, r.StartTime, r.EndTime)
	return s.send(ctx, r, subject, body)
}

func (s *emailService) SendBookingCancellation(ctx context.Context, r *domain.Reservation, itemName string) error {
	subject := fmt.Sprintf("Booking cancelled: %s on %s", itemName, r.Date)
	body := fmt.Sprintf("Hello %s,\n\nYour booking #%d for %s on %s from %s to %s has been cancelled.",
		r.CustomerName, r.ID, itemName, r.Date, r.StartTime, r.EndTime)
	return s.send(ctx, r, subject, body)
}

func (s *emailService) SendBookingReminder(ctx context.Context, r *domain.Reservation, itemName string) error {
	subject := fmt.Sprintf("Reminder: %s tomorrow at %s", itemName, r.StartTime)
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder of your booking #%d for %s on %s from %s to %s.",
		r.CustomerName, r.ID, itemName, r.Date, r.StartTime, r.EndTime)
	return s.send(ctx, r, subject, body)
}

func (s *emailService) send(ctx context.Context, r *domain.Reservation, subject, body string) error {
	if r.CustomerEmail == nil || *r.CustomerEmail == "" {
		return nil
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(r.CustomerName, *r.CustomerEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	logger.ExternalServiceCall("sendgrid", "send", "reservationID", r.ID, "subject", subject)
	resp, err := s.client.SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "reservationID", r.ID)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type noopEmailService struct{}

func (noopEmailService) SendBookingConfirmation(ctx context.Context, r *domain.Reservation, itemName string) error {
	logger.Debug("Email disabled, skipping confirmation", "reservationID", r.ID)
	return nil
}

func (noopEmailService) SendBookingCancellation(ctx context.Context, r *domain.Reservation, itemName string) error {
	logger.Debug("Email disabled, skipping cancellation", "reservationID", r.ID)
	return nil
}

func (noopEmailService) SendBookingReminder(ctx context.Context, r *domain.Reservation, itemName string) error {
	logger.Debug("Email disabled, skipping reminder", "reservationID", r.ID)
	return nil
}
