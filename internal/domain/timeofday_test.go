package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		v, err := ParseTimeOfDay("09:30")
		require.NoError(t, err)
		assert.Equal(t, TimeOfDay("09:30"), v)
		assert.Equal(t, 570, v.Minutes())
	})

	t.Run("End of day", func(t *testing.T) {
		v, err := ParseTimeOfDay("24:00")
		require.NoError(t, err)
		assert.Equal(t, EndOfDay, v)
		assert.Equal(t, 1440, v.Minutes())
	})

	for _, in := range []string{"9:30", "09-30", "24:01", "25:00", "12:60", "ab:cd", ""} {
		t.Run("Invalid "+in, func(t *testing.T) {
			_, err := ParseTimeOfDay(in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewTimeRange(t *testing.T) {
	r, err := NewTimeRange("10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, "10:00-11:00", r.String())

	_, err = NewTimeRange("11:00", "11:00")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewTimeRange("12:00", "11:00")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewTimeRange("10:00", "noon")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTimeRange_Overlaps(t *testing.T) {
	existing := TimeRange{Start: "10:00", End: "11:00"}

	tests := []struct {
		name     string
		proposed TimeRange
		want     bool
	}{
		{"identical", TimeRange{"10:00", "11:00"}, true},
		{"starts inside", TimeRange{"10:30", "11:30"}, true},
		{"ends inside", TimeRange{"09:30", "10:30"}, true},
		{"covers existing", TimeRange{"09:00", "12:00"}, true},
		{"inside existing", TimeRange{"10:15", "10:45"}, true},
		{"adjacent after", TimeRange{"11:00", "12:00"}, false},
		{"adjacent before", TimeRange{"09:00", "10:00"}, false},
		{"disjoint", TimeRange{"13:00", "14:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.proposed.Overlaps(existing))
			assert.Equal(t, tt.want, existing.Overlaps(tt.proposed), "overlap must be symmetric")
		})
	}
}

func TestTimeRange_Contains(t *testing.T) {
	window := TimeRange{Start: "09:00", End: "17:00"}
	assert.True(t, window.Contains(TimeRange{"09:00", "17:00"}))
	assert.True(t, window.Contains(TimeRange{"10:00", "11:00"}))
	assert.False(t, window.Contains(TimeRange{"08:30", "09:30"}))
	assert.False(t, window.Contains(TimeRange{"16:30", "17:30"}))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-12")
	require.NoError(t, err)
	assert.Equal(t, 12, d.Day())

	_, err = ParseDate("2026/10/12")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseDate("2026-02-30")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
