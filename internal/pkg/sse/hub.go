package sse

import (
	"sync"
)

// Event names published by the attendance workflow.
const (
	EventAttendancePending  = "attendance.pending_approval"
	EventAttendanceApproved = "attendance.approved"
	EventAttendanceRejected = "attendance.rejected"
)

// subscriberBuffer bounds each subscriber channel; a slow consumer loses
// events rather than blocking the publisher.
const subscriberBuffer = 10

// Event is one message delivered to a user's event stream.
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// Hub fans events out to per-user subscriber channels. A user may hold
// several concurrent streams (multiple devices), each with its own channel.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan Event]struct{})}
}

// Subscribe opens a stream for userID. The returned cleanup must be called
// when the stream ends; it closes the channel and drops the registration.
func (h *Hub) Subscribe(userID string) (chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	set, ok := h.subscribers[userID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subscribers[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[userID], ch)
		close(ch)
		if len(h.subscribers[userID]) == 0 {
			delete(h.subscribers, userID)
		}
	}
}

// Publish delivers event to every stream userID currently holds. Delivery is
// non-blocking; a full subscriber channel is skipped.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishToMany delivers event to each listed user, stamping the per-user ID.
func (h *Hub) PublishToMany(userIDs []string, event Event) {
	for _, userID := range userIDs {
		userEvent := event
		userEvent.UserID = userID
		h.Publish(userID, userEvent)
	}
}

// SubscriberCount reports how many streams userID currently holds.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// TotalSubscribers reports the number of open streams across all users.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, set := range h.subscribers {
		total += len(set)
	}
	return total
}
