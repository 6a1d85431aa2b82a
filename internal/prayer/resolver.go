// Package prayer locates the current and next prayer of a PrayerDay.
package prayer

import (
	"time"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

// Resolve reports which countable marker is current, which is next, and
// how many minutes remain until next. now is minutes since midnight in the
// day's timezone; values outside [0,1440) are wrapped.
//
// A marker whose minute equals now is current, not next. Before the first
// countable marker of the day there is no current prayer. At or after the
// last countable marker, next is the first countable marker of tomorrow.
func Resolve(day *model.PrayerDay, now int) model.Resolution {
	if day == nil || day.Len() == 0 {
		return model.Resolution{}
	}
	now = ((now % model.MinutesPerDay) + model.MinutesPerDay) % model.MinutesPerDay

	first, last := -1, -1
	next, current := -1, -1
	for i := 0; i < day.Len(); i++ {
		m := day.At(i)
		if !m.Countable {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		if next < 0 {
			if m.Time.Minutes() > now {
				next = i
			} else {
				current = i
			}
		}
	}
	if first < 0 {
		return model.Resolution{}
	}

	if next < 0 {
		nextMarker := day.At(first)
		return model.Resolution{
			CurrentID:        day.At(last).ID,
			NextID:           nextMarker.ID,
			MinutesUntilNext: (model.MinutesPerDay - now) + nextMarker.Time.Minutes(),
			NextIsTomorrow:   true,
		}
	}

	res := model.Resolution{
		NextID:           day.At(next).ID,
		MinutesUntilNext: day.At(next).Time.Minutes() - now,
	}
	if current >= 0 {
		res.CurrentID = day.At(current).ID
	}
	return res
}

// ResolveAt resolves t after converting it into the day's timezone.
func ResolveAt(day *model.PrayerDay, t time.Time) model.Resolution {
	if day == nil {
		return model.Resolution{}
	}
	return Resolve(day, MinutesOfDay(t.In(day.Date().Location())))
}

// MinutesOfDay returns the minutes elapsed since local midnight of t.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
