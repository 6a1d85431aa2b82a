// Package reminder decides when prayer notifications are due and builds
// their payloads.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

const (
	// PreAlertLead is how long before a prayer the reminder goes out.
	PreAlertLead = 5 * time.Minute
	// AtTimeGrace is how long after a prayer starts its alert may still go
	// out when a check runs late.
	AtTimeGrace = 2 * time.Minute

	KeyLastNotifiedPrayer = "lastNotifiedPrayer"
	KeyLastPrayerTime     = "lastPrayerTime"
	KeyLastAdhanTime      = "lastAdhanTime"

	TagReminder = "salawat-reminder"
	TagWelcome  = "prayer-notification"

	stampLayout = "2006-01-02 15:04"
)

type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

type Checker struct {
	kv       KV
	notifier Notifier
	lead     time.Duration
	grace    time.Duration
}

func NewChecker(kv KV, notifier Notifier) *Checker {
	return &Checker{kv: kv, notifier: notifier, lead: PreAlertLead, grace: AtTimeGrace}
}

// Check sends every notification due at now and returns the ones sent.
// A reminder is due anywhere inside its window, so a delayed check still
// delivers it; the persisted markers keep it from going out twice.
func (c *Checker) Check(ctx context.Context, day *model.PrayerDay, now time.Time) ([]model.Notification, error) {
	if day == nil {
		return nil, nil
	}
	var sent []model.Notification
	var errs []error
	for _, m := range day.Markers() {
		if !m.Countable {
			continue
		}
		at := day.Instant(m)
		stamp := at.Format(stampLayout)

		if !now.Before(at.Add(-c.lead)) && now.Before(at) {
			n, err := c.preAlert(ctx, m, at, stamp)
			if err != nil {
				errs = append(errs, err)
			} else if n != nil {
				sent = append(sent, *n)
			}
		}
		if !now.Before(at) && now.Before(at.Add(c.grace)) {
			n, err := c.atTime(ctx, m, at, stamp)
			if err != nil {
				errs = append(errs, err)
			} else if n != nil {
				sent = append(sent, *n)
			}
		}
	}
	return sent, errors.Join(errs...)
}

func (c *Checker) preAlert(ctx context.Context, m model.PrayerMarker, at time.Time, stamp string) (*model.Notification, error) {
	lastName, _, err := c.kv.Get(ctx, KeyLastNotifiedPrayer)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyLastNotifiedPrayer, err)
	}
	lastTime, _, err := c.kv.Get(ctx, KeyLastPrayerTime)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyLastPrayerTime, err)
	}
	if lastName == m.ID && lastTime == stamp {
		return nil, nil
	}

	n := PreAlert(m, at)
	if err := c.notifier.Notify(ctx, n); err != nil {
		return nil, fmt.Errorf("notify %s pre-alert: %w", m.ID, err)
	}
	if err := c.kv.Set(ctx, KeyLastNotifiedPrayer, m.ID); err != nil {
		return &n, fmt.Errorf("write %s: %w", KeyLastNotifiedPrayer, err)
	}
	if err := c.kv.Set(ctx, KeyLastPrayerTime, stamp); err != nil {
		return &n, fmt.Errorf("write %s: %w", KeyLastPrayerTime, err)
	}
	log.Info().Str("prayer", m.ID).Str("at", stamp).Msg("sent prayer reminder")
	return &n, nil
}

func (c *Checker) atTime(ctx context.Context, m model.PrayerMarker, at time.Time, stamp string) (*model.Notification, error) {
	last, _, err := c.kv.Get(ctx, KeyLastAdhanTime)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyLastAdhanTime, err)
	}
	if last == stamp {
		return nil, nil
	}

	n := PrayerTime(m, at)
	if err := c.notifier.Notify(ctx, n); err != nil {
		return nil, fmt.Errorf("notify %s prayer time: %w", m.ID, err)
	}
	if err := c.kv.Set(ctx, KeyLastAdhanTime, stamp); err != nil {
		return &n, fmt.Errorf("write %s: %w", KeyLastAdhanTime, err)
	}
	log.Info().Str("prayer", m.ID).Str("at", stamp).Msg("sent prayer time alert")
	return &n, nil
}

func rtl(n model.Notification) model.Notification {
	n.Dir = "rtl"
	n.Lang = "ar"
	return n
}

// PreAlert is the reminder sent shortly before a prayer.
func PreAlert(m model.PrayerMarker, at time.Time) model.Notification {
	return rtl(model.Notification{
		Kind:               model.NotificationPrePrayer,
		Title:              "اقترب موعد صلاة " + m.Name,
		Body:               "سيحين وقت الصلاة الساعة " + m.Time.String(),
		Tag:                TagReminder,
		Sound:              model.SoundNotification,
		RequireInteraction: true,
		PrayerID:           m.ID,
		At:                 at,
	})
}

// PrayerTime is the alert sent when a prayer starts. It carries no sound.
func PrayerTime(m model.PrayerMarker, at time.Time) model.Notification {
	return rtl(model.Notification{
		Kind:               model.NotificationPrayerTime,
		Title:              "حان الآن وقت صلاة " + m.Name,
		Body:               "وقت الصلاة: " + m.Time.String(),
		Tag:                TagReminder,
		Sound:              model.SoundNone,
		RequireInteraction: true,
		PrayerID:           m.ID,
		At:                 at,
	})
}

// Welcome announces the next prayer after the board loads.
func Welcome(day *model.PrayerDay, res model.Resolution, now time.Time) (model.Notification, bool) {
	if day == nil {
		return model.Notification{}, false
	}
	next, ok := day.Marker(res.NextID)
	if !ok {
		return model.Notification{}, false
	}
	return model.Notification{
		Kind:     model.NotificationNextPrayer,
		Title:    "مواقيت الصلاة",
		Body:     fmt.Sprintf("الصلاة القادمة: %s - %s", next.Name, next.Time),
		Tag:      TagWelcome,
		PrayerID: next.ID,
		At:       now,
	}, true
}

// Salawat is the periodic blessing reminder.
func Salawat(now time.Time) model.Notification {
	return rtl(model.Notification{
		Kind:               model.NotificationSalawat,
		Title:              "اللهم صل على محمد",
		Body:               "اللهم صل وسلم وبارك على سيدنا محمد",
		Tag:                TagReminder,
		Sound:              model.SoundNotification,
		RequireInteraction: true,
		At:                 now,
	})
}

// AdhanTest lets an operator check the adhan cue on the screens.
func AdhanTest(now time.Time) model.Notification {
	return rtl(model.Notification{
		Kind:  model.NotificationTest,
		Title: "اختبار صوت الأذان",
		Body:  "هذا إشعار تجريبي",
		Tag:   TagWelcome,
		Sound: model.SoundAdhan,
		At:    now,
	})
}
