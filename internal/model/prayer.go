package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the modulus for every minutes-of-day value.
const MinutesPerDay = 24 * 60

var (
	ErrInvalidClockTime = errors.New("invalid clock time")
	ErrInvalidDay       = errors.New("invalid prayer day")
)

// ClockTime is a wall-clock time within a single day.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseClockTime parses "HH:MM". Providers sometimes append a zone
// annotation ("05:12 (EET)"), which is ignored.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	ct := ClockTime{Hour: h, Minute: m}
	if !ct.Valid() {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ct, nil
}

func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// Minutes returns the minutes elapsed since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// PrayerMarker is one named time point of the day. Sunrise is a marker
// but not Countable: it is shown, never highlighted.
type PrayerMarker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Time      ClockTime `json:"time"`
	Countable bool      `json:"countable"`
}

// PrayerDay is the immutable list of markers fetched for one date and
// location, in chronological order.
type PrayerDay struct {
	date      time.Time
	location  Location
	markers   []PrayerMarker
	hijri     string
	fallback  bool
	fetchedAt time.Time
}

// DayInfo is the metadata attached to a PrayerDay.
type DayInfo struct {
	Date      time.Time
	Location  Location
	Hijri     string
	Fallback  bool
	FetchedAt time.Time
}

// NewPrayerDay validates and copies markers. Times must be strictly
// increasing, IDs unique, and at least two markers countable.
func NewPrayerDay(info DayInfo, markers []PrayerMarker) (*PrayerDay, error) {
	if len(markers) == 0 {
		return nil, fmt.Errorf("%w: no markers", ErrInvalidDay)
	}
	seen := make(map[string]bool, len(markers))
	countable := 0
	for i, m := range markers {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: marker %d has no id", ErrInvalidDay, i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("%w: duplicate marker %q", ErrInvalidDay, m.ID)
		}
		seen[m.ID] = true
		if !m.Time.Valid() {
			return nil, fmt.Errorf("%w: marker %q has time %v", ErrInvalidDay, m.ID, m.Time)
		}
		if i > 0 && m.Time.Minutes() <= markers[i-1].Time.Minutes() {
			return nil, fmt.Errorf("%w: %q (%s) is not after %q (%s)",
				ErrInvalidDay, m.ID, m.Time, markers[i-1].ID, markers[i-1].Time)
		}
		if m.Countable {
			countable++
		}
	}
	if countable < 2 {
		return nil, fmt.Errorf("%w: need at least two countable markers, got %d", ErrInvalidDay, countable)
	}

	loc := info.Location.TimeLocation()
	y, mo, d := info.Date.In(loc).Date()
	return &PrayerDay{
		date:      time.Date(y, mo, d, 0, 0, 0, 0, loc),
		location:  info.Location,
		markers:   append([]PrayerMarker(nil), markers...),
		hijri:     info.Hijri,
		fallback:  info.Fallback,
		fetchedAt: info.FetchedAt,
	}, nil
}

// Markers returns a copy of the markers in chronological order.
func (d *PrayerDay) Markers() []PrayerMarker {
	return append([]PrayerMarker(nil), d.markers...)
}

func (d *PrayerDay) Len() int { return len(d.markers) }

// At returns the i-th marker.
func (d *PrayerDay) At(i int) PrayerMarker { return d.markers[i] }

// Marker looks a marker up by id.
func (d *PrayerDay) Marker(id string) (PrayerMarker, bool) {
	for _, m := range d.markers {
		if m.ID == id {
			return m, true
		}
	}
	return PrayerMarker{}, false
}

// Date is local midnight of the day in the day's timezone.
func (d *PrayerDay) Date() time.Time { return d.date }

func (d *PrayerDay) Location() Location { return d.location }

func (d *PrayerDay) Hijri() string { return d.hijri }

// Fallback reports whether the day was fetched for the default location.
func (d *PrayerDay) Fallback() bool { return d.fallback }

func (d *PrayerDay) FetchedAt() time.Time { return d.fetchedAt }

// Instant returns the absolute time of a marker on this day.
func (d *PrayerDay) Instant(m PrayerMarker) time.Time {
	return time.Date(d.date.Year(), d.date.Month(), d.date.Day(),
		m.Time.Hour, m.Time.Minute, 0, 0, d.date.Location())
}

// Resolution is the current/next view of a PrayerDay at one instant.
// CurrentID is empty when no prayer of the day has started yet.
type Resolution struct {
	CurrentID        string `json:"current_id,omitempty"`
	NextID           string `json:"next_id"`
	MinutesUntilNext int    `json:"minutes_until_next"`
	NextIsTomorrow   bool   `json:"next_is_tomorrow"`
}

func (r Resolution) HasCurrent() bool { return r.CurrentID != "" }
