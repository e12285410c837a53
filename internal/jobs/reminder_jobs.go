package jobs

import (
	"context"
	"fmt"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"
)

// SendBookingReminders e-mails every customer with a confirmed booking tomorrow.
func (jr *JobRunner) SendBookingReminders() {
	jr.runWithRecovery("SendBookingReminders", func() {
		sent, err := jr.RemindUpcoming(context.Background())
		if err != nil {
			logger.Error("Failed to send booking reminders", "error", err)
			return
		}
		logger.Info("Sent booking reminders", "count", sent)
	})
}

// RemindUpcoming sends reminders for the next UTC day and returns how many
// were delivered. A failed send is logged and skipped.
func (jr *JobRunner) RemindUpcoming(ctx context.Context) (int, error) {
	date := jr.now().UTC().AddDate(0, 0, 1).Format(domain.DateLayout)

	bookings, err := jr.reservations.ListConfirmedByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("list bookings for %s: %w", date, err)
	}

	names := make(map[int32]string)
	sent := 0
	for i := range bookings {
		r := &bookings[i]
		if r.CustomerEmail == nil || *r.CustomerEmail == "" {
			continue
		}

		name, ok := names[r.ItemID]
		if !ok {
			name = fmt.Sprintf("item #%d", r.ItemID)
			if item, err := jr.items.GetByID(ctx, r.ItemID); err == nil {
				name = item.Name
			}
			names[r.ItemID] = name
		}

		if err := jr.email.SendBookingReminder(ctx, r, name); err != nil {
			logger.Warn("Failed to send booking reminder", "reservation_id", r.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
