// Package notify delivers notifications to the board screens.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n model.Notification) error

func (f Func) Notify(ctx context.Context, n model.Notification) error { return f(ctx, n) }

// Nop drops notifications. It stands in when no transport is configured.
type Nop struct{}

func (Nop) Notify(_ context.Context, n model.Notification) error {
	log.Debug().Str("kind", n.Kind).Str("title", n.Title).Msg("notifications disabled, skipping")
	return nil
}

// Fanout delivers to every notifier. The notification counts as delivered
// when at least one leg accepts it; failed legs are logged. Only when every
// leg fails are their errors joined and returned.
func Fanout(notifiers ...Notifier) Notifier {
	return Func(func(ctx context.Context, n model.Notification) error {
		var errs []error
		for _, nt := range notifiers {
			if err := nt.Notify(ctx, n); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 && len(errs) < len(notifiers) {
			log.Warn().Err(errors.Join(errs...)).Str("kind", n.Kind).
				Int("failed", len(errs)).Int("legs", len(notifiers)).
				Msg("notification partially delivered")
			return nil
		}
		return errors.Join(errs...)
	})
}

type Recorder interface {
	LogNotification(rec model.NotificationRecord) error
}

// now stamps history rows with the send time.
var now = time.Now

// Recording logs every successful delivery to rec. A logging failure does
// not fail the delivery.
func Recording(next Notifier, rec Recorder) Notifier {
	return Func(func(ctx context.Context, n model.Notification) error {
		if err := next.Notify(ctx, n); err != nil {
			return err
		}
		r := model.NotificationRecord{
			Kind:   n.Kind,
			Title:  n.Title,
			Body:   n.Body,
			SentAt: now(),
		}
		if n.PrayerID != "" {
			id := n.PrayerID
			r.PrayerID = &id
		}
		if err := rec.LogNotification(r); err != nil {
			log.Error().Err(err).Str("kind", n.Kind).Msg("failed to log notification")
		}
		return nil
	})
}

type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// SoundKey is the KV key holding the uploaded audio URL of a sound cue.
func SoundKey(sound string) string { return "audio_" + sound }

// WithSounds fills SoundURL from the uploaded audio cues.
func WithSounds(next Notifier, kv KV) Notifier {
	return Func(func(ctx context.Context, n model.Notification) error {
		if n.Sound != "" && n.SoundURL == "" {
			url, ok, err := kv.Get(ctx, SoundKey(n.Sound))
			if err != nil {
				log.Warn().Err(err).Str("sound", n.Sound).Msg("failed to look up sound url")
			} else if ok {
				n.SoundURL = url
			}
		}
		return next.Notify(ctx, n)
	})
}
