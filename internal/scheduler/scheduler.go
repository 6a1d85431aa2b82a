// Package scheduler runs named periodic tasks that can be started and
// stopped independently.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownTask   = errors.New("unknown task")
	ErrDuplicateTask = errors.New("task already registered")
	ErrInvalidTask   = errors.New("invalid task")
	ErrRunning       = errors.New("task already running")
	ErrNotRunning    = errors.New("task not running")
)

// Task is a function run every Interval. Runs of one task never overlap;
// ticks that arrive while a run is in progress are dropped.
type Task struct {
	Name           string
	Interval       time.Duration
	RunImmediately bool
	Run            func(ctx context.Context)
}

type TaskStatus struct {
	Name     string        `json:"name"`
	Interval time.Duration `json:"interval"`
	Running  bool          `json:"running"`
	Runs     int64         `json:"runs"`
	LastRun  *time.Time    `json:"last_run,omitempty"`
}

type entry struct {
	task   Task
	cancel context.CancelFunc
	// done is closed when the last started loop has returned. It stays set
	// after Stop so a later Start can wait for a run still in progress.
	done    chan struct{}
	runs    atomic.Int64
	lastRun atomic.Int64
}

type Scheduler struct {
	ctx   context.Context
	mu    sync.Mutex
	tasks map[string]*entry
	order []string
}

// New creates a scheduler whose tasks all stop when ctx is cancelled.
func New(ctx context.Context) *Scheduler {
	return &Scheduler{ctx: ctx, tasks: make(map[string]*entry)}
}

func (s *Scheduler) Register(t Task) error {
	if t.Name == "" || t.Interval <= 0 || t.Run == nil {
		return fmt.Errorf("%w: %q", ErrInvalidTask, t.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, t.Name)
	}
	s.tasks[t.Name] = &entry{task: t}
	s.order = append(s.order, t.Name)
	return nil
}

// Start launches the task loop. If a previous loop is still finishing its
// last run, Start waits for it first.
func (s *Scheduler) Start(name string) error {
	for {
		s.mu.Lock()
		e, ok := s.tasks[name]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrUnknownTask, name)
		}
		if e.cancel != nil {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrRunning, name)
		}
		if prev := e.done; prev != nil && !closed(prev) {
			s.mu.Unlock()
			<-prev
			continue
		}
		ctx, cancel := context.WithCancel(s.ctx)
		done := make(chan struct{})
		e.cancel = cancel
		e.done = done
		go s.loop(ctx, e, done)
		s.mu.Unlock()
		log.Info().Str("task", name).Dur("interval", e.task.Interval).Msg("task started")
		return nil
	}
}

func closed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Stop cancels the task and waits for its current run to return.
func (s *Scheduler) Stop(name string) error {
	s.mu.Lock()
	e, ok := s.tasks[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	if e.cancel == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotRunning, name)
	}
	cancel, done := e.cancel, e.done
	e.cancel = nil
	s.mu.Unlock()

	cancel()
	<-done
	log.Info().Str("task", name).Msg("task stopped")
	return nil
}

// StartAll starts every registered task that is not already running.
func (s *Scheduler) StartAll() error {
	s.mu.Lock()
	names := append([]string(nil), s.order...)
	s.mu.Unlock()

	for _, name := range names {
		if err := s.Start(name); err != nil && !errors.Is(err, ErrRunning) {
			return err
		}
	}
	return nil
}

// Shutdown stops every running task.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	names := append([]string(nil), s.order...)
	s.mu.Unlock()

	for _, name := range names {
		_ = s.Stop(name)
	}
}

func (s *Scheduler) Tasks() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskStatus, 0, len(s.order))
	for _, name := range s.order {
		e := s.tasks[name]
		st := TaskStatus{
			Name:     name,
			Interval: e.task.Interval,
			Running:  e.cancel != nil,
			Runs:     e.runs.Load(),
		}
		if ns := e.lastRun.Load(); ns != 0 {
			t := time.Unix(0, ns)
			st.LastRun = &t
		}
		out = append(out, st)
	}
	return out
}

func (s *Scheduler) loop(ctx context.Context, e *entry, done chan struct{}) {
	defer close(done)
	if e.task.RunImmediately {
		s.run(ctx, e)
	}
	ticker := time.NewTicker(e.task.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, e)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, e *entry) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("task", e.task.Name).Interface("panic", r).Msg("task panicked")
		}
	}()
	e.lastRun.Store(time.Now().UnixNano())
	e.runs.Add(1)
	e.task.Run(ctx)
}
