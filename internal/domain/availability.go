package domain

import (
	"fmt"
	"strings"
	"time"
)

type DayOfWeek string

const (
	Sunday    DayOfWeek = "SUNDAY"
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
)

// indexed by time.Weekday
var weekdays = [7]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOfWeekOf maps a calendar date onto the rule enumeration.
func DayOfWeekOf(date time.Time) DayOfWeek {
	return weekdays[date.Weekday()]
}

// ParseDayOfWeek accepts full names ("monday") and three-letter
// abbreviations ("MON"), case-insensitively.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, d := range weekdays {
		if v == string(d) || (len(v) == 3 && strings.HasPrefix(string(d), v)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown day of week %q", ErrInvalidInput, s)
}

type AvailabilityRule struct {
	ID        int32     `json:"id"`
	ItemID    int32     `json:"itemId"`
	DayOfWeek DayOfWeek `json:"dayOfWeek"`
	StartTime TimeOfDay `json:"startTime"`
	EndTime   TimeOfDay `json:"endTime"`
	IsActive  bool      `json:"isActive"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

func (r *AvailabilityRule) Range() TimeRange {
	return TimeRange{Start: r.StartTime, End: r.EndTime}
}

// RuleUpdate carries a partial update; nil fields are left unchanged.
type RuleUpdate struct {
	DayOfWeek *DayOfWeek
	StartTime *TimeOfDay
	EndTime   *TimeOfDay
	IsActive  *bool
}

// Apply merges u into r and re-validates the resulting window.
func (u RuleUpdate) Apply(r *AvailabilityRule) error {
	next := *r
	if u.DayOfWeek != nil {
		next.DayOfWeek = *u.DayOfWeek
	}
	if u.StartTime != nil {
		next.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		next.EndTime = *u.EndTime
	}
	if u.IsActive != nil {
		next.IsActive = *u.IsActive
	}
	if err := next.Range().Validate(); err != nil {
		return err
	}
	*r = next
	return nil
}
