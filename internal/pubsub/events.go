// Package pubsub fans typed events out from the goroutine producing them to
// any number of listeners. htx publishes three streams on it: registry
// lifecycle events, debounced export snapshots and debug log lines.
package pubsub

import "time"

// EventType says what happened to the payload.
type EventType string

const (
	// CreatedEvent: a component was registered, or a log line was written.
	CreatedEvent EventType = "created"
	// UpdatedEvent: a new export snapshot replaces the previous one.
	UpdatedEvent EventType = "updated"
	// DeletedEvent: a component was unregistered.
	DeletedEvent EventType = "deleted"
	// ClearedEvent: every component was removed from the registry.
	ClearedEvent EventType = "cleared"
)

// Event carries one payload with the time it was published.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
