package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/notify"
	"github.com/Nixie-Tech-LLC/salawat/internal/prayer"
	"github.com/Nixie-Tech-LLC/salawat/internal/redis"
)

type recordingNotifier struct {
	sent []model.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n model.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, n)
	return nil
}

func day(t *testing.T, date time.Time) *model.PrayerDay {
	t.Helper()
	d, err := prayer.FromTimings(map[string]string{
		"Fajr": "05:00", "Sunrise": "06:20", "Dhuhr": "12:00",
		"Asr": "15:30", "Maghrib": "18:00", "Isha": "19:30",
	}, prayer.Options{Date: date, IncludeSunrise: true})
	require.NoError(t, err)
	return d
}

var today = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func at(h, m, s int) time.Time {
	return time.Date(2026, 10, 14, h, m, s, 0, time.UTC)
}

func TestCheck_PreAlertOnceInsideLead(t *testing.T) {
	ctx := context.Background()
	kv := redis.NewMemoryStore()
	n := &recordingNotifier{}
	c := NewChecker(kv, n)
	d := day(t, today)

	sent, err := c.Check(ctx, d, at(11, 54, 59))
	require.NoError(t, err)
	assert.Empty(t, sent, "outside the lead window")

	sent, err = c.Check(ctx, d, at(11, 55, 0))
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, model.NotificationPrePrayer, sent[0].Kind)
	assert.Equal(t, "اقترب موعد صلاة الظهر", sent[0].Title)
	assert.Equal(t, "سيحين وقت الصلاة الساعة 12:00", sent[0].Body)
	assert.Equal(t, model.SoundNotification, sent[0].Sound)
	assert.Equal(t, TagReminder, sent[0].Tag)
	assert.Equal(t, "rtl", sent[0].Dir)
	assert.True(t, sent[0].RequireInteraction)

	// a second check in the same window is deduplicated
	sent, err = c.Check(ctx, d, at(11, 56, 0))
	require.NoError(t, err)
	assert.Empty(t, sent)
	assert.Len(t, n.sent, 1)

	name, _, _ := kv.Get(ctx, KeyLastNotifiedPrayer)
	stamp, _, _ := kv.Get(ctx, KeyLastPrayerTime)
	assert.Equal(t, prayer.Dhuhr, name)
	assert.Equal(t, "2026-10-14 12:00", stamp)
}

func TestCheck_DelayedCheckStillDelivers(t *testing.T) {
	n := &recordingNotifier{}
	c := NewChecker(redis.NewMemoryStore(), n)

	// A check that lands three minutes into the lead still fires.
	sent, err := c.Check(context.Background(), day(t, today), at(15, 28, 40))
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, prayer.Asr, sent[0].PrayerID)
}

func TestCheck_AtPrayerTime(t *testing.T) {
	ctx := context.Background()
	kv := redis.NewMemoryStore()
	n := &recordingNotifier{}
	c := NewChecker(kv, n)
	d := day(t, today)

	_, err := c.Check(ctx, d, at(17, 56, 0))
	require.NoError(t, err)

	sent, err := c.Check(ctx, d, at(18, 0, 30))
	require.NoError(t, err)
	require.Len(t, sent, 1, "the earlier pre-alert must not suppress the at-time alert")
	assert.Equal(t, model.NotificationPrayerTime, sent[0].Kind)
	assert.Equal(t, "حان الآن وقت صلاة المغرب", sent[0].Title)
	assert.Equal(t, "وقت الصلاة: 18:00", sent[0].Body)
	assert.Empty(t, sent[0].Sound)

	sent, err = c.Check(ctx, d, at(18, 1, 30))
	require.NoError(t, err)
	assert.Empty(t, sent)

	sent, err = c.Check(ctx, d, at(18, 2, 0))
	require.NoError(t, err)
	assert.Empty(t, sent, "past the grace window")
	assert.Len(t, n.sent, 2)
}

func TestCheck_SunriseNeverNotifies(t *testing.T) {
	c := NewChecker(redis.NewMemoryStore(), &recordingNotifier{})
	d := day(t, today)

	for _, now := range []time.Time{at(6, 16, 0), at(6, 20, 0), at(6, 21, 0)} {
		sent, err := c.Check(context.Background(), d, now)
		require.NoError(t, err)
		assert.Empty(t, sent, now.Format("15:04"))
	}
}

func TestCheck_SameClockTimeNextDay(t *testing.T) {
	ctx := context.Background()
	kv := redis.NewMemoryStore()
	c := NewChecker(kv, &recordingNotifier{})

	sent, err := c.Check(ctx, day(t, today), at(4, 57, 0))
	require.NoError(t, err)
	require.Len(t, sent, 1)

	tomorrow := today.AddDate(0, 0, 1)
	sent, err = c.Check(ctx, day(t, tomorrow), tomorrow.Add(4*time.Hour+57*time.Minute))
	require.NoError(t, err)
	assert.Len(t, sent, 1, "identical times on consecutive days are separate reminders")
}

func TestCheck_NotifyFailureRetriesNextTick(t *testing.T) {
	ctx := context.Background()
	kv := redis.NewMemoryStore()
	n := &recordingNotifier{err: errors.New("broker offline")}
	c := NewChecker(kv, n)
	d := day(t, today)

	sent, err := c.Check(ctx, d, at(19, 26, 0))
	assert.Error(t, err)
	assert.Empty(t, sent)

	n.err = nil
	sent, err = c.Check(ctx, d, at(19, 27, 0))
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}

func TestCheck_BrokerDownScreensAlertedOnce(t *testing.T) {
	ctx := context.Background()
	kv := redis.NewMemoryStore()
	screens := &recordingNotifier{}
	brokerDown := &recordingNotifier{err: errors.New("broker down")}
	c := NewChecker(kv, notify.Fanout(brokerDown, screens))
	d := day(t, today)

	for m := 55; m <= 59; m++ {
		_, err := c.Check(ctx, d, at(11, m, 0))
		require.NoError(t, err)
	}
	require.Len(t, screens.sent, 1, "one dhuhr pre-alert per window")
	assert.Equal(t, "dhuhr", screens.sent[0].PrayerID)

	for s := 0; s < 120; s += 60 {
		_, err := c.Check(ctx, d, at(12, 0, s))
		require.NoError(t, err)
	}
	require.Len(t, screens.sent, 2, "one dhuhr prayer time alert")
	assert.Equal(t, model.NotificationPrayerTime, screens.sent[1].Kind)
}

func TestCheck_NilDay(t *testing.T) {
	sent, err := NewChecker(redis.NewMemoryStore(), &recordingNotifier{}).Check(context.Background(), nil, time.Now())
	assert.NoError(t, err)
	assert.Nil(t, sent)
}

func TestWelcome(t *testing.T) {
	d := day(t, today)
	n, ok := Welcome(d, prayer.Resolve(d, 13*60), at(13, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "مواقيت الصلاة", n.Title)
	assert.Equal(t, "الصلاة القادمة: العصر - 15:30", n.Body)
	assert.Equal(t, TagWelcome, n.Tag)

	_, ok = Welcome(nil, model.Resolution{}, time.Now())
	assert.False(t, ok)
}

func TestSalawat(t *testing.T) {
	n := Salawat(at(9, 0, 0))
	assert.Equal(t, model.NotificationSalawat, n.Kind)
	assert.Equal(t, "اللهم صل على محمد", n.Title)
	assert.Equal(t, model.SoundNotification, n.Sound)
}
