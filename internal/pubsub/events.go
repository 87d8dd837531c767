// Package pubsub provides a generic publish/subscribe event system used to
// fan marker notices and log lines out to the console.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	// EmittedEvent carries a marker that was sent downstream.
	EmittedEvent EventType = "emitted"
	// NoticeEvent carries an operator-facing report (undo, history, prompt).
	NoticeEvent EventType = "notice"
	// LogEvent carries a formatted debug log line.
	LogEvent EventType = "log"
)

// Event is a published value with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
