package events

import "time"

// Event defines the contract for analytics events flowing over the bus.
type Event interface {
	// EventType returns the event name (e.g. "question_attempt").
	EventType() string

	// Payload returns the properties attached to the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by the analytics emitter.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, props map[string]interface{}) BaseEvent {
	if props == nil {
		props = map[string]interface{}{}
	}
	return BaseEvent{
		Type:       eventType,
		Data:       props,
		OccurredAt: time.Now(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
