package events

import (
	"context"
	"sync"
)

// MemoryPublisher is an in-process Publisher that records published events.
// Intended for tests and for running the platform without an event broker.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []*AnalyticsEvent

	// PublishFunc overrides Publish behavior if set. Used by tests to
	// inject delivery failures.
	PublishFunc func(ctx context.Context, event *AnalyticsEvent) error
}

var _ Publisher = (*MemoryPublisher)(nil)

// NewMemoryPublisher creates an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish records the event.
func (m *MemoryPublisher) Publish(ctx context.Context, event *AnalyticsEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of all recorded events.
func (m *MemoryPublisher) Events() []*AnalyticsEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*AnalyticsEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfType returns recorded events matching the given type.
func (m *MemoryPublisher) EventsOfType(eventType string) []*AnalyticsEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*AnalyticsEvent
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events.
func (m *MemoryPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.PublishFunc = nil
}

// Close is a no-op.
func (m *MemoryPublisher) Close() error {
	return nil
}
