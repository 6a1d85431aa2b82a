package packets

// RESPONSES FOR /api/admin/*

type LocationResponse struct {
	Primary   bool    `json:"primary"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	City      string  `json:"city,omitempty"`
	Label     string  `json:"label"`
	Message   string  `json:"message,omitempty"`
}

type RefreshResponse struct {
	Date     string `json:"date"`
	Fallback bool   `json:"fallback"`
	Label    string `json:"label"`
	Message  string `json:"message,omitempty"`
}

// mirrors model.PrayerDayRecord with times flattened to RFC3339
type PrayerDayResponse struct {
	ID        int               `json:"id"`
	Day       string            `json:"day"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	City      *string           `json:"city"`
	Timezone  string            `json:"timezone"`
	Fallback  bool              `json:"fallback"`
	Timings   map[string]string `json:"timings"`
	Hijri     *string           `json:"hijri"`
	FetchedAt string            `json:"fetched_at"`
}

type NotificationResponse struct {
	ID       int     `json:"id"`
	Kind     string  `json:"kind"`
	PrayerID *string `json:"prayer_id"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	SentAt   string  `json:"sent_at"`
}

type AudioResponse struct {
	Cue string `json:"cue"`
	URL string `json:"url"`
}

type TaskResponse struct {
	Name     string  `json:"name"`
	Interval string  `json:"interval"`
	Running  bool    `json:"running"`
	Runs     int64   `json:"runs"`
	LastRun  *string `json:"last_run"`
}
