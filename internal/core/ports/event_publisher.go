package ports

import (
	"dispatch/internal/core/domain/events"
)

// EventPublisher delivers domain events to external collaborators
// (notification, analytics). Publish must never block the caller: dispatch
// correctness does not depend on event delivery, so implementations queue
// asynchronously and drop rather than stall when a subscriber is slow.
type EventPublisher interface {
	Publish(event events.Event)
}

// NopEventPublisher discards all events. Useful in tests and tools that do
// not care about notifications.
type NopEventPublisher struct{}

// Publish discards the event.
func (NopEventPublisher) Publish(events.Event) {}
