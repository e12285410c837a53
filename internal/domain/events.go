package domain

import (
	"fmt"
	"time"
)

type BookingEventType string

const (
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent is published after a booking transaction commits.
type BookingEvent struct {
	Type          BookingEventType  `json:"type"`
	ReservationID int32             `json:"reservationId"`
	ItemID        int32             `json:"itemId"`
	Date          string            `json:"date"`
	StartTime     TimeOfDay         `json:"startTime"`
	EndTime       TimeOfDay         `json:"endTime"`
	Status        ReservationStatus `json:"status"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

func NewBookingEvent(t BookingEventType, r *Reservation, at time.Time) BookingEvent {
	return BookingEvent{
		Type:          t,
		ReservationID: r.ID,
		ItemID:        r.ItemID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
		OccurredAt:    at.UTC(),
	}
}

// PartitionKey groups events of one item-day so consumers see them in order.
func (e BookingEvent) PartitionKey() string {
	return fmt.Sprintf("%d:%s", e.ItemID, e.Date)
}
