package session

import (
	"sync"
	"time"
)

// EventType names a session event pushed to subscribers.
type EventType string

const (
	EventSuggestionsReady   EventType = "suggestions_ready"
	EventEnvironmentUpdated EventType = "environment_updated"
	EventSelectionRefreshed EventType = "selection_refreshed"
	EventSelectionCleared   EventType = "selection_cleared"
	EventCountdown          EventType = "countdown"
	EventExpired            EventType = "expired"
)

// Event is a single notification. Data is a small JSON-friendly payload.
type Event struct {
	Type EventType `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// hub fans events out to subscribers. Slow subscribers lose events instead
// of blocking the publisher.
type hub struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	buffer int
	closed bool
}

func newHub(buffer int) *hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &hub{subs: make(map[int]chan Event), buffer: buffer}
}

func (h *hub) subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
