// Package worker owns the periodic board tasks: the clock tick, the
// per-minute prayer check, the hourly refresh and the salawat reminder.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/salawat/internal/display"
	"github.com/Nixie-Tech-LLC/salawat/internal/hijri"
	"github.com/Nixie-Tech-LLC/salawat/internal/live"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/notify"
	"github.com/Nixie-Tech-LLC/salawat/internal/reminder"
	"github.com/Nixie-Tech-LLC/salawat/internal/scheduler"
	"github.com/Nixie-Tech-LLC/salawat/internal/timings"
)

const (
	TaskClock       = "clock"
	TaskPrayerCheck = "prayer-check"
	TaskRefresh     = "refresh"
	TaskSalawat     = "salawat"

	ClockInterval   = time.Second
	CheckInterval   = time.Minute
	RefreshInterval = time.Hour
	SalawatInterval = 10 * time.Minute

	refreshTimeout = 30 * time.Second
)

type Config struct {
	// Zone is used for the clock until a day has been fetched.
	Zone           *time.Location
	SalawatEnabled bool
}

// ClockState is the payload of a clock event.
type ClockState struct {
	Time string `json:"time"`
	Date string `json:"date"`
}

type Worker struct {
	timings  *timings.Service
	checker  *reminder.Checker
	notifier notify.Notifier
	hub      *live.Hub
	calendar *hijri.Calendar
	cfg      Config
	now      func() time.Time

	welcomed atomic.Bool
}

func New(svc *timings.Service, checker *reminder.Checker, notifier notify.Notifier, hub *live.Hub, calendar *hijri.Calendar, cfg Config) *Worker {
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	return &Worker{
		timings:  svc,
		checker:  checker,
		notifier: notifier,
		hub:      hub,
		calendar: calendar,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (w *Worker) SetClock(now func() time.Time) { w.now = now }

func (w *Worker) Now() time.Time { return w.now() }

// Register adds the board tasks to s.
func (w *Worker) Register(s *scheduler.Scheduler) error {
	tasks := []scheduler.Task{
		{Name: TaskClock, Interval: ClockInterval, RunImmediately: true, Run: w.Clock},
		{Name: TaskPrayerCheck, Interval: CheckInterval, Run: w.PrayerCheck},
		{Name: TaskRefresh, Interval: RefreshInterval, RunImmediately: true, Run: w.Refresh},
	}
	if w.cfg.SalawatEnabled {
		tasks = append(tasks, scheduler.Task{Name: TaskSalawat, Interval: SalawatInterval, RunImmediately: true, Run: w.Salawat})
	}
	for _, t := range tasks {
		if err := s.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) zone() *time.Location {
	if day := w.timings.Snapshot(); day != nil {
		return day.Date().Location()
	}
	return w.cfg.Zone
}

func (w *Worker) ClockState(now time.Time) ClockState {
	local := now.In(w.zone())
	return ClockState{
		Time: display.Clock(local),
		Date: w.calendar.Format(now, display.ArabicDigits),
	}
}

// Board builds the board state for now from the current snapshot.
func (w *Worker) Board(now time.Time) display.Board {
	status := w.timings.Status()
	clock := w.ClockState(now)
	b := display.Board{
		Clock:    clock.Time,
		Date:     clock.Date,
		Location: status.Label,
		Message:  status.Message,
	}
	day, res, err := w.timings.Resolve(now)
	if err != nil {
		return b
	}
	b.Rows = display.Rows(day, res)
	b.Resolution = res
	b.Fallback = day.Fallback()
	return b
}

func (w *Worker) Clock(ctx context.Context) {
	w.hub.Publish(live.Event{Name: live.EventClock, Data: w.ClockState(w.now())})
}

// PrayerCheck re-renders the board and sends due reminders.
func (w *Worker) PrayerCheck(ctx context.Context) {
	now := w.now()
	w.hub.Publish(live.Event{Name: live.EventBoard, Data: w.Board(now)})

	sent, err := w.checker.Check(ctx, w.timings.Snapshot(), now)
	if err != nil {
		log.Error().Err(err).Msg("prayer reminder check failed")
	}
	for _, n := range sent {
		log.Debug().Str("kind", n.Kind).Str("prayer", n.PrayerID).Msg("reminder delivered")
	}
}

// Refresh is the scheduled form of RefreshNow.
func (w *Worker) Refresh(ctx context.Context) {
	if err := w.RefreshNow(ctx); err != nil {
		log.Error().Err(err).Msg("prayer times refresh failed")
	}
}

// RefreshNow fetches today's timings and re-renders the board. The first
// successful refresh also announces the next prayer.
func (w *Worker) RefreshNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	_, err := w.timings.Refresh(ctx)

	now := w.now()
	w.hub.Publish(live.Event{Name: live.EventBoard, Data: w.Board(now)})
	if err != nil {
		return err
	}

	if !w.welcomed.Load() {
		w.welcome(ctx, now)
	}
	return nil
}

func (w *Worker) welcome(ctx context.Context, now time.Time) {
	day, res, err := w.timings.Resolve(now)
	if err != nil {
		return
	}
	n, ok := reminder.Welcome(day, res, now)
	if !ok {
		return
	}
	if err := w.notifier.Notify(ctx, n); err != nil {
		log.Error().Err(err).Msg("failed to send next prayer notification")
		return
	}
	w.welcomed.Store(true)
}

func (w *Worker) Salawat(ctx context.Context) {
	if err := w.notifier.Notify(ctx, reminder.Salawat(w.now())); err != nil {
		log.Error().Err(err).Msg("failed to send salawat reminder")
	}
}

// Welcomed reports whether the next prayer announcement went out.
func (w *Worker) Welcomed() bool { return w.welcomed.Load() }

// Notify sends n through the worker's notifier.
func (w *Worker) Notify(ctx context.Context, n model.Notification) error {
	return w.notifier.Notify(ctx, n)
}
