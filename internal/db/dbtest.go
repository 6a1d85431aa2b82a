package db

import (
	"database/sql"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/salawat/internal/model"
)

var TestStore Store

// InitTestDB connects to TEST_DATABASE_URL and migrates it.
func InitTestDB(migrationsPath string) error {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return errors.New("TEST_DATABASE_URL environment variable is not set")
	}

	if err := Init(dbURL); err != nil {
		return err
	}

	if err := RunMigrations(migrationsPath); err != nil {
		return err
	}

	TestStore = NewStore(DB)
	return nil
}

type memoryStore struct {
	mu            sync.Mutex
	users         []model.User
	days          []model.PrayerDayRecord
	notifications []model.NotificationRecord
}

// NewMemoryStore returns a Store kept in process memory, for tests.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return 0, errors.New("duplicate email")
		}
	}
	now := time.Now()
	id := len(m.users) + 1
	m.users = append(m.users, model.User{
		ID: id, Email: email, HashedPassword: hashedPassword, Name: name,
		CreatedAt: now, UpdatedAt: now,
	})
	return id, nil
}

func (m *memoryStore) CountUsers() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memoryStore) GetUserByEmail(email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryStore) GetUserByID(id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > len(m.users) {
		return nil, sql.ErrNoRows
	}
	u := m.users[id-1]
	return &u, nil
}

func (m *memoryStore) UpdateUserProfile(id int, email string, name *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > len(m.users) {
		return ErrNoSuchUser
	}
	u := &m.users[id-1]
	u.Email = email
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memoryStore) SavePrayerDay(rec model.PrayerDayRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.days {
		if d.Day.Equal(rec.Day) && d.Latitude == rec.Latitude && d.Longitude == rec.Longitude {
			rec.ID = d.ID
			m.days[i] = rec
			return rec.ID, nil
		}
	}
	rec.ID = len(m.days) + 1
	m.days = append(m.days, rec)
	return rec.ID, nil
}

func (m *memoryStore) ListPrayerDays(limit int) ([]model.PrayerDayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PrayerDayRecord, 0, len(m.days))
	for i := len(m.days) - 1; i >= 0 && len(out) < clampLimit(limit); i-- {
		out = append(out, m.days[i])
	}
	return out, nil
}

func (m *memoryStore) LogNotification(rec model.NotificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = len(m.notifications) + 1
	m.notifications = append(m.notifications, rec)
	return nil
}

func (m *memoryStore) ListNotifications(limit int) ([]model.NotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.NotificationRecord, 0, len(m.notifications))
	for i := len(m.notifications) - 1; i >= 0 && len(out) < clampLimit(limit); i-- {
		out = append(out, m.notifications[i])
	}
	return out, nil
}
