package telemetry

// EventType classifies an event.
type EventType string

const (
	// EventConfig marks a resolved-configuration summary event.
	EventConfig EventType = "config"
)

// Event is one telemetry event: a classification, a short detail string,
// and a flat key-value payload.
type Event struct {
	// Type is the event classification.
	Type EventType

	// Detail is a short human-readable description.
	Detail string

	// Data is the flat payload. Values are scalars.
	Data map[string]any
}

// Sink accepts events. Implementations must not block in Add and must not
// surface errors to the emitter: telemetry is fire-and-forget by contract.
type Sink interface {
	Add(event Event)
}

// NopSink discards every event.
type NopSink struct{}

// Add implements Sink.
func (NopSink) Add(Event) {}
