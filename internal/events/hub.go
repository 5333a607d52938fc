// Package events provides the in-process pub/sub hub behind the live
// update push channel. Writes publish events after the fact; connected
// clients use them as a signal to refetch, so ordering across subscribers
// is not guaranteed and each event carries enough identity to reconcile.
package events

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event names pushed to connected clients.
const (
	TypeConnected      = "connected"
	TypeExpenseNew     = "expense:new"
	TypeExpenseUpdated = "expense:updated"
	TypeExpenseDeleted = "expense:deleted"
	TypeBalanceUpdated = "balance:updated"
)

// Event is one push notification.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Encode serializes the event for the wire.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Hub fans events out to subscribers. Publishing never blocks: a subscriber
// whose buffer is full misses the event and must rely on its next refetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// subscriberBuffer is how many undelivered events a subscriber may lag
// behind before events are dropped for it.
const subscriberBuffer = 16

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must
// be called when the subscriber goes away; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			slog.Warn("dropping event for slow subscriber", "type", event.Type)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
