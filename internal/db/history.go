package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

// stores a fetched day. A later fetch of the same day and coordinates
// replaces the stored timings.
func (s *pgStore) SavePrayerDay(rec model.PrayerDayRecord) (int, error) {
	query := `
	INSERT INTO prayer_days (day, latitude, longitude, city, timezone, fallback, timings, hijri, fetched_at)
	VALUES (:day, :latitude, :longitude, :city, :timezone, :fallback, :timings, :hijri, :fetched_at)
	ON CONFLICT (day, latitude, longitude) DO UPDATE
	SET city = EXCLUDED.city,
	timezone = EXCLUDED.timezone,
	fallback = EXCLUDED.fallback,
	timings = EXCLUDED.timings,
	hijri = EXCLUDED.hijri,
	fetched_at = EXCLUDED.fetched_at
	RETURNING id;
	`
	rows, err := s.db.NamedQuery(query, rec)
	if err != nil {
		log.Error().Err(err).Msg("failed to save prayer day")
		return 0, err
	}
	defer rows.Close()

	var id int
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, rows.Err()
}

// most recent days first.
func (s *pgStore) ListPrayerDays(limit int) ([]model.PrayerDayRecord, error) {
	var out []model.PrayerDayRecord
	query := `
	SELECT id, day, latitude, longitude, city, timezone, fallback, timings, hijri, fetched_at
	FROM prayer_days
	ORDER BY day DESC, fetched_at DESC
	LIMIT $1;
	`
	if err := s.db.Select(&out, query, clampLimit(limit)); err != nil {
		log.Error().Err(err).Msg("failed to list prayer days")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) LogNotification(rec model.NotificationRecord) error {
	query := `
	INSERT INTO notifications (kind, prayer_id, title, body, sent_at)
	VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := s.db.Exec(query, rec.Kind, rec.PrayerID, rec.Title, rec.Body, rec.SentAt); err != nil {
		log.Error().Err(err).Msg("failed to log notification")
		return err
	}
	return nil
}

// most recent first.
func (s *pgStore) ListNotifications(limit int) ([]model.NotificationRecord, error) {
	var out []model.NotificationRecord
	query := `
	SELECT id, kind, prayer_id, title, body, sent_at
	FROM notifications
	ORDER BY sent_at DESC, id DESC
	LIMIT $1;
	`
	if err := s.db.Select(&out, query, clampLimit(limit)); err != nil {
		log.Error().Err(err).Msg("failed to list notifications")
		return nil, err
	}
	return out, nil
}
