package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// TimeOfDay is a zero-padded 24h "HH:MM" value. Because every value has the
// same width, string comparison is chronological comparison.
type TimeOfDay string

const EndOfDay TimeOfDay = "24:00"

// ParseTimeOfDay validates s and returns it as a TimeOfDay. "24:00" is
// accepted so a window can run until midnight.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return "", fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, s)
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM {
		return "", fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, s)
	}
	if TimeOfDay(s) == EndOfDay {
		return EndOfDay, nil
	}
	if h > 23 || m > 59 {
		return "", fmt.Errorf("%w: time %q is out of range", ErrInvalidInput, s)
	}
	return TimeOfDay(s), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// Minutes returns the minute-of-day.
func (t TimeOfDay) Minutes() int {
	h, _ := twoDigits(t[0], t[1])
	m, _ := twoDigits(t[3], t[4])
	return h*60 + m
}

func (t TimeOfDay) String() string {
	return string(t)
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}

// TimeRange is the half-open interval [Start, End).
type TimeRange struct {
	Start TimeOfDay `json:"startTime"`
	End   TimeOfDay `json:"endTime"`
}

// NewTimeRange parses both bounds and enforces Start < End.
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeRange{}, err
	}
	r := TimeRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

func (r TimeRange) Validate() error {
	if r.Start >= r.End {
		return fmt.Errorf("%w: %s must be before %s", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Overlaps reports whether the proposed range r collides with existing.
// The three clauses mirror the storage-side conflict query.
func (r TimeRange) Overlaps(existing TimeRange) bool {
	startInside := existing.Start <= r.Start && r.Start < existing.End
	endInside := existing.Start < r.End && r.End <= existing.End
	covers := r.Start <= existing.Start && r.End >= existing.End
	return startInside || endInside || covers
}

// Contains reports whether other lies entirely inside r.
func (r TimeRange) Contains(other TimeRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

func (r TimeRange) String() string {
	return string(r.Start) + "-" + string(r.End)
}
