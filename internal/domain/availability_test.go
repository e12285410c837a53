package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfWeekOf(t *testing.T) {
	tests := []struct {
		date string
		want DayOfWeek
	}{
		{"2026-10-11", Sunday},
		{"2026-10-12", Monday},
		{"2026-10-13", Tuesday},
		{"2026-10-17", Saturday},
		{"2024-02-29", Thursday},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse(DateLayout, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DayOfWeekOf(d))
		})
	}
}

func TestParseDayOfWeek(t *testing.T) {
	for in, want := range map[string]DayOfWeek{
		"MONDAY": Monday,
		"monday": Monday,
		"Mon":    Monday,
		"SAT":    Saturday,
		" sun ":  Sunday,
	} {
		got, err := ParseDayOfWeek(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDayOfWeek("funday")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseDayOfWeek("MO")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRuleUpdate_Apply(t *testing.T) {
	base := AvailabilityRule{ID: 1, ItemID: 2, DayOfWeek: Monday, StartTime: "09:00", EndTime: "17:00", IsActive: true}

	t.Run("Partial update", func(t *testing.T) {
		r := base
		end := TimeOfDay("12:00")
		day := Friday
		require.NoError(t, RuleUpdate{EndTime: &end, DayOfWeek: &day}.Apply(&r))
		assert.Equal(t, TimeOfDay("09:00"), r.StartTime)
		assert.Equal(t, end, r.EndTime)
		assert.Equal(t, Friday, r.DayOfWeek)
	})

	t.Run("Merged range must stay valid", func(t *testing.T) {
		r := base
		start := TimeOfDay("18:00")
		err := RuleUpdate{StartTime: &start}.Apply(&r)
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.Equal(t, base, r, "rule must be untouched on failure")
	})

	t.Run("Toggle active", func(t *testing.T) {
		r := base
		off := false
		require.NoError(t, RuleUpdate{IsActive: &off}.Apply(&r))
		assert.False(t, r.IsActive)
	})
}
