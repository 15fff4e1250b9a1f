// Package outbox defines the stored form of an integration event awaiting
// delivery to the message broker.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxRetries bounds delivery attempts of a single event.
const DefaultMaxRetries = 10

// Event is an integration event persisted for at-least-once delivery.
type Event struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Topic         string
	Payload       json.RawMessage
	CreatedAt     time.Time
	PublishedAt   *time.Time
	RetryCount    int
	MaxRetries    int
	LastError     string
}

// NewEvent encodes payload as JSON and wraps it in a pending event.
func NewEvent(aggregateID, aggregateType, eventType, topic string, payload any, now time.Time) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:            uuid.NewString(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Topic:         topic,
		Payload:       data,
		CreatedAt:     now,
		MaxRetries:    DefaultMaxRetries,
	}, nil
}

func (e *Event) IsPublished() bool {
	return e.PublishedAt != nil
}

// ShouldRetry reports whether the relay should attempt delivery again.
func (e *Event) ShouldRetry() bool {
	return !e.IsPublished() && e.RetryCount < e.MaxRetries
}
