package prayer

import (
	"fmt"
	"time"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

// Marker ids.
const (
	Fajr    = "fajr"
	Sunrise = "sunrise"
	Dhuhr   = "dhuhr"
	Asr     = "asr"
	Maghrib = "maghrib"
	Isha    = "isha"
)

// CanonicalMarker maps a marker id to the provider's timings key.
type CanonicalMarker struct {
	ID        string
	Key       string
	Name      string
	Countable bool
}

// Canonical lists the markers of a day in chronological order.
var Canonical = []CanonicalMarker{
	{ID: Fajr, Key: "Fajr", Name: "الفجر", Countable: true},
	{ID: Sunrise, Key: "Sunrise", Name: "الشروق", Countable: false},
	{ID: Dhuhr, Key: "Dhuhr", Name: "الظهر", Countable: true},
	{ID: Asr, Key: "Asr", Name: "العصر", Countable: true},
	{ID: Maghrib, Key: "Maghrib", Name: "المغرب", Countable: true},
	{ID: Isha, Key: "Isha", Name: "العشاء", Countable: true},
}

// Name returns the Arabic label for a marker id, or the id itself.
func Name(id string) string {
	for _, c := range Canonical {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// IsCountable reports whether id names a countable canonical marker.
func IsCountable(id string) bool {
	for _, c := range Canonical {
		if c.ID == id {
			return c.Countable
		}
	}
	return false
}

type Options struct {
	Date           time.Time
	Location       model.Location
	Hijri          string
	Fallback       bool
	FetchedAt      time.Time
	IncludeSunrise bool
}

// FromTimings builds a PrayerDay from a provider timings object keyed by
// canonical names ("Fajr", "Dhuhr", ...) with "HH:MM" values.
func FromTimings(timings map[string]string, opts Options) (*model.PrayerDay, error) {
	markers := make([]model.PrayerMarker, 0, len(Canonical))
	for _, c := range Canonical {
		if !c.Countable && !opts.IncludeSunrise {
			continue
		}
		raw, ok := timings[c.Key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", model.ErrInvalidDay, c.Key)
		}
		ct, err := model.ParseClockTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Key, err)
		}
		markers = append(markers, model.PrayerMarker{
			ID:        c.ID,
			Name:      c.Name,
			Time:      ct,
			Countable: c.Countable,
		})
	}
	return model.NewPrayerDay(model.DayInfo{
		Date:      opts.Date,
		Location:  opts.Location,
		Hijri:     opts.Hijri,
		Fallback:  opts.Fallback,
		FetchedAt: opts.FetchedAt,
	}, markers)
}
