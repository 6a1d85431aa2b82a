// Package live fans board events out to connected screens.
package live

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	EventClock        = "clock"
	EventBoard        = "board"
	EventNotification = "notification"
)

const defaultBuffer = 8

type Event struct {
	Name string
	Data any
}

// Hub delivers published events to every subscriber. A subscriber whose
// buffer is full misses the event; Publish never blocks.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	latest map[string]Event
	order  []string
}

func NewHub() *Hub {
	return &Hub{
		subs:   make(map[chan Event]struct{}),
		latest: make(map[string]Event),
	}
}

// Subscribe registers a subscriber and queues the latest event of each kind
// so a new screen renders without waiting for the next tick. The returned
// func unsubscribes and closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	for _, name := range h.order {
		select {
		case ch <- h.latest[name]:
		default:
		}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev and keeps it as the latest event of its name.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.latest[ev.Name]; !ok {
		h.order = append(h.order, ev.Name)
	}
	h.latest[ev.Name] = ev
	h.deliver(ev)
}

// Send delivers ev to current subscribers only.
func (h *Hub) Send(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliver(ev)
}

func (h *Hub) deliver(ev Event) {
	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("event", ev.Name).Int("dropped", dropped).Msg("slow live subscribers")
	}
}

func (h *Hub) Latest(name string) (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ev, ok := h.latest[name]
	return ev, ok
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
