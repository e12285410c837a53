package domain

import "sort"

type BookedSlot struct {
	ReservationID int32     `json:"reservationId"`
	StartTime     TimeOfDay `json:"startTime"`
	EndTime       TimeOfDay `json:"endTime"`
}

// DaySlots is the free/busy breakdown of one item on one date.
type DaySlots struct {
	ItemID            int32              `json:"itemId"`
	Date              string             `json:"date"`
	DayOfWeek         DayOfWeek          `json:"dayOfWeek"`
	AvailabilityRules []AvailabilityRule `json:"availabilityRules"`
	BookedSlots       []BookedSlot       `json:"bookedSlots"`
	AvailableSlots    []TimeRange        `json:"availableSlots"`
}

// ComputeAvailableSlots reports each rule window that no confirmed booking
// touches. A window with any overlapping booking is dropped whole rather than
// split into the remaining free sub-ranges.
func ComputeAvailableSlots(rules []AvailabilityRule, bookings []Reservation) []TimeRange {
	free := make([]TimeRange, 0, len(rules))
	for _, rule := range rules {
		window := rule.Range()
		taken := false
		for i := range bookings {
			if bookings[i].Status != ReservationStatusConfirmed {
				continue
			}
			if window.Overlaps(bookings[i].Range()) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, window)
		}
	}
	sort.SliceStable(free, func(i, j int) bool {
		if free[i].Start == free[j].Start {
			return free[i].End < free[j].End
		}
		return free[i].Start < free[j].Start
	})
	return free
}

// BookedSlotsOf projects confirmed reservations into display slots.
func BookedSlotsOf(bookings []Reservation) []BookedSlot {
	out := make([]BookedSlot, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != ReservationStatusConfirmed {
			continue
		}
		out = append(out, BookedSlot{ReservationID: b.ID, StartTime: b.StartTime, EndTime: b.EndTime})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}
