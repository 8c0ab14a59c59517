package services

import (
	"sync"
	"time"
)

// LockEvent is a real-time notification that a diagram's lock state changed.
type LockEvent struct {
	DiagramID uint      `json:"diagram_id"`
	ProjectID uint      `json:"project_id"`
	UserID    uint      `json:"user_id"`
	Action    string    `json:"action"` // locked, refreshed, unlocked
	LockedAt  time.Time `json:"locked_at"`
}

// Lock event actions
const (
	LockActionLocked    = "locked"
	LockActionRefreshed = "refreshed"
	LockActionUnlocked  = "unlocked"
)

// LockEventHub manages SSE client connections and lock event broadcasting.
// Polling-based editors subscribe to see "being edited by X" without
// hammering the lock endpoint.
type LockEventHub struct {
	clients map[string]chan LockEvent
	mu      sync.RWMutex
}

func NewLockEventHub() *LockEventHub {
	return &LockEventHub{
		clients: make(map[string]chan LockEvent),
	}
}

// Subscribe registers a new client and returns a channel for receiving events
func (h *LockEventHub) Subscribe(clientID string) <-chan LockEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Buffered channel so a slow client cannot block publishers
	ch := make(chan LockEvent, 100)
	h.clients[clientID] = ch
	return ch
}

// Unsubscribe removes a client from the hub
func (h *LockEventHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[clientID]; ok {
		close(ch)
		delete(h.clients, clientID)
	}
}

// Publish broadcasts an event to all connected clients
func (h *LockEventHub) Publish(event LockEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		// Non-blocking send - drop event if client buffer is full
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients
func (h *LockEventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var lockEventHub *LockEventHub
var lockEventHubOnce sync.Once

// GetLockEventHub returns the global lock event hub singleton
func GetLockEventHub() *LockEventHub {
	lockEventHubOnce.Do(func() {
		lockEventHub = NewLockEventHub()
	})
	return lockEventHub
}

// PublishLockEvent is a convenience function to publish lock state changes.
func PublishLockEvent(diagramID, projectID, userID uint, action string, lockedAt time.Time) {
	GetLockEventHub().Publish(LockEvent{
		DiagramID: diagramID,
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		LockedAt:  lockedAt,
	})
}
