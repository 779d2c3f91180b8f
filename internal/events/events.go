// Package events publishes analysis lifecycle notifications to a message
// broker. Publishing is best effort: callers log failures and move on.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// TypeAnalysisCompleted is emitted after an analysis record is persisted.
const TypeAnalysisCompleted = "analysis.completed"

// Event is the message body sent to every backend.
type Event struct {
	Type       string    `json:"type"`
	AnalysisID string    `json:"analysisId"`
	OwnerID    string    `json:"ownerId"`
	FileName   string    `json:"fileName"`
	Score      int       `json:"score"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events to a backend.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Encode renders ev as the JSON message body.
func Encode(ev Event) ([]byte, error) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return json.Marshal(ev)
}

// Nop drops every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }
