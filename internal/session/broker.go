package session

import (
	"sync"
	"time"

	"resume-scorer/internal/shared/telemetry"
)

// EventType names a session state transition.
type EventType string

const (
	EventRestored  EventType = "restored"
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

const subscriberBuffer = 16

// Event is delivered to subscribers when a user's session state changes.
type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	At        time.Time `json:"at"`
}

// Broker fans session events out to per-user subscribers.
type Broker struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan Event
}

// NewBroker constructs a Broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[uint64]chan Event)}
}

// Subscribe registers for events about current.UserID. The first event on the
// returned channel is always a restored event for current. Call cancel to
// unsubscribe; it closes the channel.
func (b *Broker) Subscribe(current Context) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	ch <- Event{Type: EventRestored, UserID: current.UserID, SessionID: current.SessionID, At: time.Now().UTC()}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[current.UserID] == nil {
		b.subs[current.UserID] = make(map[uint64]chan Event)
	}
	b.subs[current.UserID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if userSubs := b.subs[current.UserID]; userSubs != nil {
				delete(userSubs, id)
				if len(userSubs) == 0 {
					delete(b.subs, current.UserID)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber of ev.UserID. Slow subscribers
// whose buffer is full miss the event.
func (b *Broker) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
			telemetry.Warn("session.event_dropped", map[string]any{"user_id": ev.UserID, "type": string(ev.Type)})
		}
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (b *Broker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}
