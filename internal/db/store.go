// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

var ErrNoSuchUser = errors.New("no such user")

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error
	CountUsers() (int, error)

	// history functions
	SavePrayerDay(rec model.PrayerDayRecord) (int, error)
	ListPrayerDays(limit int) ([]model.PrayerDayRecord, error)
	LogNotification(rec model.NotificationRecord) error
	ListNotifications(limit int) ([]model.NotificationRecord, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
