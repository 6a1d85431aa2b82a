package packets

// RESPONSES FOR the public board API

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Timezone  string  `json:"timezone"`
}

type MarkerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Time      string `json:"time"`  // "HH:MM", 24-hour
	Label     string `json:"label"` // Arabic 12-hour
	At        string `json:"at"`    // RFC3339
	Countable bool   `json:"countable"`
}

type TodayResponse struct {
	Date      string           `json:"date"`
	Location  LocationResponse `json:"location"`
	Hijri     string           `json:"hijri,omitempty"`
	Fallback  bool             `json:"fallback"`
	FetchedAt string           `json:"fetched_at"`
	Markers   []MarkerResponse `json:"markers"`
}

type CounterResponse struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}
