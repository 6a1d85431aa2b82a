package prayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

func clock(h, m int) model.ClockTime { return model.ClockTime{Hour: h, Minute: m} }

func testDay(t *testing.T) *model.PrayerDay {
	t.Helper()
	day, err := model.NewPrayerDay(model.DayInfo{
		Date:     time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		Location: model.Location{Latitude: 31.0341, Longitude: 30.4685},
	}, []model.PrayerMarker{
		{ID: Fajr, Time: clock(5, 0), Countable: true},
		{ID: Sunrise, Time: clock(6, 20), Countable: false},
		{ID: Dhuhr, Time: clock(12, 0), Countable: true},
		{ID: Asr, Time: clock(15, 30), Countable: true},
		{ID: Maghrib, Time: clock(18, 0), Countable: true},
		{ID: Isha, Time: clock(19, 30), Countable: true},
	})
	require.NoError(t, err)
	return day
}

func TestResolve_AtDhuhr(t *testing.T) {
	res := Resolve(testDay(t), 12*60)

	assert.Equal(t, Dhuhr, res.CurrentID)
	assert.Equal(t, Asr, res.NextID)
	assert.Equal(t, 210, res.MinutesUntilNext)
	assert.False(t, res.NextIsTomorrow)
}

func TestResolve_AfterIsha(t *testing.T) {
	res := Resolve(testDay(t), 19*60+31)

	assert.Equal(t, Isha, res.CurrentID)
	assert.Equal(t, Fajr, res.NextID)
	assert.True(t, res.NextIsTomorrow)
	assert.Equal(t, (1440-(19*60+31))+5*60, res.MinutesUntilNext)
	assert.Equal(t, 569, res.MinutesUntilNext)
}

func TestResolve_AtIshaIsTomorrowsFajr(t *testing.T) {
	res := Resolve(testDay(t), 19*60+30)

	assert.Equal(t, Isha, res.CurrentID)
	assert.Equal(t, Fajr, res.NextID)
	assert.True(t, res.NextIsTomorrow)
	assert.Equal(t, 570, res.MinutesUntilNext)
}

func TestResolve_BeforeFajrHasNoCurrent(t *testing.T) {
	res := Resolve(testDay(t), 4*60)

	assert.False(t, res.HasCurrent())
	assert.Empty(t, res.CurrentID)
	assert.Equal(t, Fajr, res.NextID)
	assert.Equal(t, 60, res.MinutesUntilNext)
	assert.False(t, res.NextIsTomorrow)
}

func TestResolve_Midnight(t *testing.T) {
	res := Resolve(testDay(t), 0)

	assert.Empty(t, res.CurrentID)
	assert.Equal(t, Fajr, res.NextID)
	assert.Equal(t, 300, res.MinutesUntilNext)
}

func TestResolve_SunriseIsSkipped(t *testing.T) {
	day := testDay(t)

	// between fajr and sunrise
	res := Resolve(day, 6*60)
	assert.Equal(t, Fajr, res.CurrentID)
	assert.Equal(t, Dhuhr, res.NextID)
	assert.Equal(t, 360, res.MinutesUntilNext)

	// exactly at sunrise
	res = Resolve(day, 6*60+20)
	assert.Equal(t, Fajr, res.CurrentID)
	assert.Equal(t, Dhuhr, res.NextID)
}

func TestResolve_EqualityMeansAt(t *testing.T) {
	res := Resolve(testDay(t), 5*60)
	assert.Equal(t, Fajr, res.CurrentID)
	assert.Equal(t, Dhuhr, res.NextID)

	res = Resolve(testDay(t), 5*60-1)
	assert.Empty(t, res.CurrentID)
	assert.Equal(t, Fajr, res.NextID)
	assert.Equal(t, 1, res.MinutesUntilNext)
}

func TestResolve_WholeDayInvariants(t *testing.T) {
	day := testDay(t)
	for now := 0; now < model.MinutesPerDay; now++ {
		res := Resolve(day, now)

		assert.GreaterOrEqual(t, res.MinutesUntilNext, 0, "now=%d", now)
		assert.Less(t, res.MinutesUntilNext, model.MinutesPerDay, "now=%d", now)
		assert.NotEqual(t, Sunrise, res.CurrentID, "now=%d", now)
		assert.NotEqual(t, Sunrise, res.NextID, "now=%d", now)
		assert.NotEqual(t, res.CurrentID, res.NextID, "now=%d", now)

		next, ok := day.Marker(res.NextID)
		require.True(t, ok)
		want := next.Time.Minutes() - now
		if res.NextIsTomorrow {
			want += model.MinutesPerDay
		}
		assert.Equal(t, want, res.MinutesUntilNext, "now=%d", now)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	day := testDay(t)
	for _, now := range []int{0, 299, 300, 720, 1170, 1439} {
		assert.Equal(t, Resolve(day, now), Resolve(day, now))
	}
}

func TestResolve_WrapsOutOfRangeNow(t *testing.T) {
	day := testDay(t)
	assert.Equal(t, Resolve(day, 720), Resolve(day, 720+model.MinutesPerDay))
	assert.Equal(t, Resolve(day, 1439), Resolve(day, -1))
}

func TestResolve_NilDay(t *testing.T) {
	assert.Equal(t, model.Resolution{}, Resolve(nil, 600))
}

func TestResolveAt_UsesDayTimezone(t *testing.T) {
	cairo, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)

	day, err := model.NewPrayerDay(model.DayInfo{
		Date:     time.Date(2026, 1, 10, 0, 0, 0, 0, cairo),
		Location: model.Location{Timezone: "Africa/Cairo"},
	}, []model.PrayerMarker{
		{ID: Fajr, Time: clock(5, 0), Countable: true},
		{ID: Dhuhr, Time: clock(12, 0), Countable: true},
	})
	require.NoError(t, err)

	// 10:00 UTC is 12:00 in Cairo (UTC+2 in January).
	res := ResolveAt(day, time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, Dhuhr, res.CurrentID)
	assert.Equal(t, Fajr, res.NextID)
	assert.True(t, res.NextIsTomorrow)
}
