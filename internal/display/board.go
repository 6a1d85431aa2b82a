package display

import (
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

const (
	ClassCurrent = "current-prayer"
	ClassNext    = "next-prayer"
)

// Row is one prayer line on the board.
type Row struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Clock     string `json:"clock"` // "HH:MM", 24-hour
	Time      string `json:"time"`  // Arabic 12-hour label
	Countdown string `json:"countdown,omitempty"`
	Countable bool   `json:"countable"`
	Current   bool   `json:"current"`
	Next      bool   `json:"next"`
}

// Label is the time text followed by the countdown suffix, if any.
func (r Row) Label() string { return r.Time + r.Countdown }

// Class is the CSS state class of the row.
func (r Row) Class() string {
	switch {
	case r.Current:
		return ClassCurrent
	case r.Next:
		return ClassNext
	default:
		return ""
	}
}

// Rows applies a resolution to the markers of day. Only the next row
// carries a countdown.
func Rows(day *model.PrayerDay, res model.Resolution) []Row {
	if day == nil {
		return nil
	}
	rows := make([]Row, 0, day.Len())
	for _, m := range day.Markers() {
		row := Row{
			ID:        m.ID,
			Name:      m.Name,
			Clock:     m.Time.String(),
			Time:      Time(m.Time),
			Countable: m.Countable,
			Current:   m.ID == res.CurrentID,
			Next:      m.ID == res.NextID,
		}
		if row.Next {
			row.Countdown = FormatRemaining(res.MinutesUntilNext)
		}
		rows = append(rows, row)
	}
	return rows
}

// Board is everything the board page renders for one instant.
type Board struct {
	Clock      string           `json:"clock"`
	Date       string           `json:"date"`
	Location   string           `json:"location"`
	Message    string           `json:"message,omitempty"`
	Rows       []Row            `json:"rows"`
	Resolution model.Resolution `json:"resolution"`
	Fallback   bool             `json:"fallback"`
}
