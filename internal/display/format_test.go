package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

func TestArabicDigits(t *testing.T) {
	assert.Equal(t, "٠١٢٣٤٥٦٧٨٩", ArabicDigits("0123456789"))
	assert.Equal(t, "الساعة ١٢", ArabicDigits("الساعة 12"))
}

func TestClock(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2026, 1, 1, 0, 5, 9, 0, time.UTC), "١٢:٠٥:٠٩ ص"},
		{time.Date(2026, 1, 1, 11, 59, 59, 0, time.UTC), "١١:٥٩:٥٩ ص"},
		{time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "١٢:٠٠:٠٠ م"},
		{time.Date(2026, 1, 1, 15, 30, 1, 0, time.UTC), "٠٣:٣٠:٠١ م"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clock(tt.at))
	}
}

func TestTime(t *testing.T) {
	assert.Equal(t, "٠٤:٣١ ص", Time(model.ClockTime{Hour: 4, Minute: 31}))
	assert.Equal(t, "٠٦:٤٤ م", Time(model.ClockTime{Hour: 18, Minute: 44}))
	assert.Equal(t, "١٢:٠٠ م", Time(model.ClockTime{Hour: 12, Minute: 0}))
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "", FormatRemaining(-1))
	assert.Equal(t, " (0 دقيقة)", FormatRemaining(0))
	assert.Equal(t, " (45 دقيقة)", FormatRemaining(45))
	assert.Equal(t, " (1 ساعة و 0 دقيقة)", FormatRemaining(60))
	assert.Equal(t, " (3 ساعة و 30 دقيقة)", FormatRemaining(210))
}
