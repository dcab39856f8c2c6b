package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the forms service.
const (
	EventSubmissionDelivered = "forms.submission.delivered"
	EventSubmissionFailed    = "forms.submission.failed"
)

// Event is the envelope published to the message broker for every
// submission outcome. Data carries the event-specific payload.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// SubmissionEvent is the Data payload for submission outcome events.
type SubmissionEvent struct {
	SubmissionID string `json:"submission_id"`
	FormType     string `json:"form_type"`
	Professor    string `json:"professor"`
	Attempts     int    `json:"attempts"`
	Error        string `json:"error,omitempty"`
}

// EventPublisher publishes events to the configured broker.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NewEvent builds an event envelope with the service identity stamped in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "forms-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
