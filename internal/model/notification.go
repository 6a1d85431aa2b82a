package model

import "time"

// Notification kinds.
const (
	NotificationPrePrayer  = "pre_prayer"
	NotificationPrayerTime = "prayer_time"
	NotificationNextPrayer = "next_prayer"
	NotificationSalawat    = "salawat"
	NotificationTest       = "test"
)

// Sound cues played by the receiving screen.
const (
	SoundNone         = ""
	SoundNotification = "notification"
	SoundAdhan        = "adhan"
)

type Notification struct {
	Kind               string    `json:"kind"`
	Title              string    `json:"title"`
	Body               string    `json:"body"`
	Tag                string    `json:"tag"`
	Sound              string    `json:"sound,omitempty"`
	SoundURL           string    `json:"sound_url,omitempty"`
	Dir                string    `json:"dir,omitempty"`
	Lang               string    `json:"lang,omitempty"`
	RequireInteraction bool      `json:"require_interaction"`
	PrayerID           string    `json:"prayer_id,omitempty"`
	At                 time.Time `json:"at"`
}
