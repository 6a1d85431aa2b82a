// Package display turns prayer days and resolutions into the strings and
// state flags the board page shows.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

const (
	amMarker = "ص"
	pmMarker = "م"
)

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// ArabicDigits rewrites ASCII digits as Arabic-Indic digits.
func ArabicDigits(s string) string {
	return arabicDigits.Replace(s)
}

func twelveHour(hour int) (int, string) {
	period := amMarker
	if hour >= 12 {
		period = pmMarker
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return h, period
}

// Clock renders t as a 12-hour "hh:mm:ss" clock with an Arabic period
// marker.
func Clock(t time.Time) string {
	h, period := twelveHour(t.Hour())
	return ArabicDigits(fmt.Sprintf("%02d:%02d:%02d", h, t.Minute(), t.Second())) + " " + period
}

// Time renders a prayer time as "hh:mm" in 12-hour Arabic form.
func Time(ct model.ClockTime) string {
	h, period := twelveHour(ct.Hour)
	return ArabicDigits(fmt.Sprintf("%02d:%02d", h, ct.Minute)) + " " + period
}

// FormatRemaining renders the countdown suffix shown after the next
// prayer's time. Negative values render as nothing.
func FormatRemaining(minutes int) string {
	if minutes < 0 {
		return ""
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf(" (%d ساعة و %d دقيقة)", hours, mins)
	}
	return fmt.Sprintf(" (%d دقيقة)", mins)
}
