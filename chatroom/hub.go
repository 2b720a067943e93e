package chatroom

import (
	"sync"

	"github.com/mindhaven-app/mindhaven-api/models"
)

// Event is pushed to websocket subscribers of a chatroom.
type Event struct {
	Type       string                  `json:"type"`
	ChatroomID string                  `json:"chatroomId"`
	Message    *models.ChatroomMessage `json:"message,omitempty"`
}

// EventMessageCreated is emitted on every successful send.
const EventMessageCreated = "MESSAGE_CREATED"

const subscriberBuffer = 16

// Hub fans chatroom events out to live subscribers. In-memory, one process;
// a multi-instance deployment needs an external broker behind the same shape.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a listener for one chatroom. The returned cancel func
// must be called when the listener goes away.
func (h *Hub) Subscribe(chatroomID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	subs, ok := h.rooms[chatroomID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.rooms[chatroomID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.rooms[chatroomID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.rooms, chatroomID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of the chatroom. Slow
// subscribers are skipped rather than blocking the sender.
func (h *Hub) Publish(chatroomID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.rooms[chatroomID] {
		select {
		case ch <- event:
		default:
		}
	}
}
