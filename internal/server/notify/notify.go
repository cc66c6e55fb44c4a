// Package notify implements the best-effort notification fanout. Delivery is
// at-most-once: publishing never blocks the triggering operation, and a
// subscriber that cannot keep up loses events instead of delaying writes.
package notify

import (
	"context"
	"sync"
	"time"
)

// Event is one notification addressed to a recipient identity key.
type Event struct {
	Recipient string
	Message   string
	CreatedAt time.Time
}

// Notifier is the push channel consumed by the sharing coordinator.
type Notifier interface {
	Notify(ctx context.Context, recipientKey, message string)
}

// Hub is an in-process fanout keyed by recipient identity. Each subscriber
// gets its own buffered channel; sends drop when the buffer is full.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[chan Event]struct{}
	buffer int
}

// NewHub creates a hub whose subscriber channels buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]map[chan Event]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a listener for recipientKey. The returned cancel
// function must be called to release the subscription; it closes the channel.
func (h *Hub) Subscribe(recipientKey string) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	set, ok := h.subs[recipientKey]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[recipientKey] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[recipientKey]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, recipientKey)
			}
		}
	}

	return ch, cancel
}

// Notify publishes message to every current subscriber of recipientKey.
// A recipient with no subscribers simply misses the event.
func (h *Hub) Notify(_ context.Context, recipientKey, message string) {
	ev := Event{Recipient: recipientKey, Message: message, CreatedAt: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[recipientKey] {
		select {
		case ch <- ev:
		default:
		}
	}
}
