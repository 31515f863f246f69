package services

import (
	"sync"
)

// Event is a real-time update pushed to connected clients.
type Event struct {
	Type    string      `json:"type"` // notification, chat, join_request, role_transfer
	ClassID uint        `json:"class_id,omitempty"`
	UserID  uint        `json:"user_id,omitempty"` // target user for directed events
	Payload interface{} `json:"payload,omitempty"`
}

type sseClient struct {
	userID  uint
	classes map[uint]struct{}
	ch      chan Event
}

// SSEHub manages SSE client connections and event broadcasting
type SSEHub struct {
	clients map[string]*sseClient
	mu      sync.RWMutex
}

// NewSSEHub creates a new SSE hub instance
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]*sseClient),
	}
}

// Subscribe registers a client for a user and returns its event channel.
// classIDs is the set of classes the user belongs to at connect time;
// class events are only routed to subscribed members. A client picks up
// new memberships by reconnecting.
func (h *SSEHub) Subscribe(clientID string, userID uint, classIDs []uint) <-chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	classes := make(map[uint]struct{}, len(classIDs))
	for _, id := range classIDs {
		classes[id] = struct{}{}
	}

	// Buffered channel to prevent blocking
	ch := make(chan Event, 100)
	h.clients[clientID] = &sseClient{userID: userID, classes: classes, ch: ch}
	return ch
}

// Unsubscribe removes a client from the hub
func (h *SSEHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.ch)
		delete(h.clients, clientID)
	}
}

// PublishToClass delivers an event only to connections of class members
func (h *SSEHub) PublishToClass(classID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if _, ok := c.classes[classID]; !ok {
			continue
		}
		// Non-blocking send - drop event if client buffer is full
		select {
		case c.ch <- event:
		default:
			// Client is slow, skip this event
		}
	}
}

// PublishToUser delivers an event only to connections of one user
func (h *SSEHub) PublishToUser(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients
func (h *SSEHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Global SSE Hub instance
var globalSSEHub *SSEHub
var sseHubOnce sync.Once

// GetSSEHub returns the global SSE hub singleton
func GetSSEHub() *SSEHub {
	sseHubOnce.Do(func() {
		globalSSEHub = NewSSEHub()
	})
	return globalSSEHub
}

// PublishChatMessage pushes a new chat message to connected class members.
func PublishChatMessage(classID uint, payload interface{}) {
	GetSSEHub().PublishToClass(classID, Event{
		Type:    "chat",
		ClassID: classID,
		Payload: payload,
	})
}
