package notify

import (
	"sync"
	"time"
)

// Event types published by the session engine.
const (
	EventSessionStarted   = "session.started"
	EventSessionCompleted = "session.completed"
)

// Event describes a change to a user's parking session.
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	SpotID    string    `json:"spotId"`
	At        time.Time `json:"at"`
}

const subscriberBuffer = 16

type subscriber struct {
	userID string
	ch     chan Event
}

// Broker fans session events out to subscribers. Delivery is best effort:
// a subscriber whose buffer is full misses the event, which is acceptable
// because observers re-read store state rather than consuming events
// exactly once.
type Broker struct {
	mu   sync.RWMutex
	subs map[int]*subscriber
	next int
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscriber)}
}

// Subscribe registers interest in events for one user id, or for all users
// when userID is empty. The returned cancel func must be called to release
// the subscription; it closes the channel.
func (b *Broker) Subscribe(userID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	sub := &subscriber{userID: userID, ch: make(chan Event, subscriberBuffer)}
	b.subs[id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Publish delivers the event to every matching subscriber without blocking.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.userID != "" && sub.userID != event.UserID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}
