package events

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/parlorgames/mysteryparty/internal/model"
)

// subscriptionBuffer is the per-subscriber backlog before events drop
const subscriptionBuffer = 64

// Subscription is one client's live feed for a single party
type Subscription struct {
	partyID model.PartyID
	userID  model.UserID
	events  chan []byte
}

// Events returns the channel frames arrive on. The hub closes it when
// the subscription is cancelled.
func (s *Subscription) Events() <-chan []byte {
	return s.events
}

// Hub fans party events out to SSE subscribers. One hub serves every
// party; subscriptions are keyed by party ID.
type Hub struct {
	mu     sync.RWMutex
	subs   map[model.PartyID]map[*Subscription]struct{}
	logger *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[model.PartyID]map[*Subscription]struct{}),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// Subscribe registers a new feed for the party
func (h *Hub) Subscribe(partyID model.PartyID, userID model.UserID) *Subscription {
	sub := &Subscription{
		partyID: partyID,
		userID:  userID,
		events:  make(chan []byte, subscriptionBuffer),
	}

	h.mu.Lock()
	if h.subs[partyID] == nil {
		h.subs[partyID] = make(map[*Subscription]struct{})
	}
	h.subs[partyID][sub] = struct{}{}
	total := len(h.subs[partyID])
	h.mu.Unlock()

	h.logger.Info("sse subscribed",
		slog.String("party", string(partyID)),
		slog.String("user_id", string(userID)),
		slog.Int("party_subscribers", total))
	return sub
}

// Unsubscribe cancels a feed and closes its channel. Safe to call more
// than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[sub.partyID]
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.partyID)
	}
	close(sub.events)
}

// Publish delivers an event to every subscriber of the party. A
// subscriber whose backlog is full misses the event rather than
// blocking the publisher.
func (h *Hub) Publish(partyID model.PartyID, eventName, data string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.subs[partyID]
	if len(set) == 0 {
		return
	}

	frame := formatEvent(eventName, data)
	for sub := range set {
		select {
		case sub.events <- frame:
		default:
			h.logger.Warn("sse event dropped, subscriber lagging",
				slog.String("party", string(partyID)),
				slog.String("user_id", string(sub.userID)),
				slog.String("event", eventName))
		}
	}
}

// SubscriberCount returns the number of live feeds for the party
func (h *Hub) SubscriberCount(partyID model.PartyID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[partyID])
}

// Stream serves the party's event feed over the connection until the
// client disconnects
func (h *Hub) Stream(w http.ResponseWriter, r *http.Request, partyID model.PartyID, userID model.UserID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := h.Subscribe(partyID, userID)
	defer h.Unsubscribe(sub)

	_, _ = w.Write(formatEvent("connected", `{"status":"connected"}`))
	flusher.Flush()

	for {
		select {
		case frame, ok := <-sub.Events():
			if !ok {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// formatEvent renders one SSE frame. Multi-line data becomes one data:
// line per row, as the protocol requires.
func formatEvent(eventName, data string) []byte {
	var b bytes.Buffer
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteByte('\n')
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.Bytes()
}
