package model

import "time"

// PrayerDayRecord is one successful fetch, as stored in prayer_days.
type PrayerDayRecord struct {
	ID        int       `db:"id"`
	Day       time.Time `db:"day"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	City      *string   `db:"city"`
	Timezone  string    `db:"timezone"`
	Fallback  bool      `db:"fallback"`
	Timings   string    `db:"timings"` // JSON object id -> "HH:MM"
	Hijri     *string   `db:"hijri"`
	FetchedAt time.Time `db:"fetched_at"`
}

// NotificationRecord is one dispatched notification.
type NotificationRecord struct {
	ID       int       `db:"id"`
	Kind     string    `db:"kind"`
	PrayerID *string   `db:"prayer_id"`
	Title    string    `db:"title"`
	Body     string    `db:"body"`
	SentAt   time.Time `db:"sent_at"`
}
