// Package events provides the async event bus used for system notifications,
// auditing hooks, and analytics.
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

// System-wide event types
const (
	// User events
	EventUserCreated  EventType = "user.created"
	EventUserLoggedIn EventType = "user.logged_in"

	// Subscription events
	EventSubscriptionChanged EventType = "subscription.changed"

	// Playback events
	EventPlaybackStarted EventType = "playback.started"

	// System events
	EventSystemStarted EventType = "system.started"
	EventSystemStopped EventType = "system.stopped"

	// General events
	EventError EventType = "error"
	EventInfo  EventType = "info"
)

// Event represents a system event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"` // system, user:id, module:id
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventHandler represents a function that handles events
type EventHandler func(event Event)

// NewSystemEvent creates an event originating from the system itself
func NewSystemEvent(eventType EventType, title, message string) Event {
	return NewEvent(eventType, "system", title, message)
}

// NewEvent creates a new event with a generated ID and current timestamp
func NewEvent(eventType EventType, source, title, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
