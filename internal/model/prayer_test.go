package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want ClockTime
		ok   bool
	}{
		{"05:12", ClockTime{5, 12}, true},
		{"5:07", ClockTime{5, 7}, true},
		{"23:59", ClockTime{23, 59}, true},
		{"18:44 (EEST)", ClockTime{18, 44}, true},
		{" 00:00 ", ClockTime{0, 0}, true},
		{"24:00", ClockTime{}, false},
		{"12:60", ClockTime{}, false},
		{"1200", ClockTime{}, false},
		{"ab:cd", ClockTime{}, false},
		{"", ClockTime{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidClockTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTime_String(t *testing.T) {
	assert.Equal(t, "05:07", ClockTime{5, 7}.String())
	assert.Equal(t, 307, ClockTime{5, 7}.Minutes())
}

func markers(times ...ClockTime) []PrayerMarker {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	out := make([]PrayerMarker, len(times))
	for i, ct := range times {
		out[i] = PrayerMarker{ID: ids[i], Time: ct, Countable: true}
	}
	return out
}

func TestNewPrayerDay_Validation(t *testing.T) {
	_, err := NewPrayerDay(DayInfo{}, nil)
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = NewPrayerDay(DayInfo{}, markers(ClockTime{5, 0}, ClockTime{5, 0}))
	assert.ErrorIs(t, err, ErrInvalidDay, "equal times are not strictly increasing")

	_, err = NewPrayerDay(DayInfo{}, markers(ClockTime{12, 0}, ClockTime{5, 0}))
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = NewPrayerDay(DayInfo{}, markers(ClockTime{5, 0}))
	assert.ErrorIs(t, err, ErrInvalidDay, "one countable marker is not enough")

	dup := markers(ClockTime{5, 0}, ClockTime{6, 0})
	dup[1].ID = dup[0].ID
	_, err = NewPrayerDay(DayInfo{}, dup)
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = NewPrayerDay(DayInfo{}, markers(ClockTime{5, 0}, ClockTime{25, 0}))
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestNewPrayerDay_CopiesMarkers(t *testing.T) {
	in := markers(ClockTime{5, 0}, ClockTime{12, 0})
	day, err := NewPrayerDay(DayInfo{}, in)
	require.NoError(t, err)

	in[0].ID = "changed"
	assert.Equal(t, "a", day.At(0).ID)

	out := day.Markers()
	out[1].ID = "changed"
	assert.Equal(t, "b", day.At(1).ID)
}

func TestPrayerDay_Instant(t *testing.T) {
	day, err := NewPrayerDay(DayInfo{
		Date:     time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC),
		Location: Location{Timezone: "Africa/Cairo"},
	}, markers(ClockTime{5, 0}, ClockTime{12, 30}))
	require.NoError(t, err)

	at := day.Instant(day.At(1))
	assert.Equal(t, "2026-03-01 12:30", at.Format("2006-01-02 15:04"))
	assert.Equal(t, "Africa/Cairo", at.Location().String())
}
