package telemetry

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBufferSize is the event buffer size used when none is specified.
const DefaultBufferSize = 1000

// Handler consumes one event on the sink's delivery goroutine.
type Handler func(event Event)

// AsyncSink buffers events on a channel and delivers them to a handler on a
// background goroutine. Add never blocks: when the buffer is full the event
// is dropped and counted. Close stops intake and drains what is buffered.
type AsyncSink struct {
	events  chan Event
	handler Handler
	logger  *slog.Logger

	emitted *prometheus.CounterVec
	dropped prometheus.Counter

	closeOnce sync.Once
	done      chan struct{}
}

// NewAsyncSink creates a sink delivering to handler. bufferSize <= 0 uses
// DefaultBufferSize. Metrics are registered on registry; a nil registry
// creates a private one, which keeps repeated construction in tests from
// colliding on duplicate registration.
func NewAsyncSink(handler Handler, bufferSize int, registry *prometheus.Registry) *AsyncSink {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &AsyncSink{
		events:  make(chan Event, bufferSize),
		handler: handler,
		logger:  slog.Default().With("component", "telemetry"),
		emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hercules",
			Subsystem: "telemetry",
			Name:      "events_emitted_total",
			Help:      "Events accepted by the sink, by event type.",
		}, []string{"type"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hercules",
			Subsystem: "telemetry",
			Name:      "events_dropped_total",
			Help:      "Events dropped because the sink buffer was full.",
		}),
		done: make(chan struct{}),
	}
	registry.MustRegister(s.emitted, s.dropped)

	go s.deliver()
	return s
}

// Add implements Sink. It never blocks; events that do not fit in the
// buffer are dropped and counted.
func (s *AsyncSink) Add(event Event) {
	select {
	case s.events <- event:
		s.emitted.WithLabelValues(string(event.Type)).Inc()
	default:
		s.dropped.Inc()
		s.logger.Warn("telemetry buffer full, event dropped", "type", event.Type)
	}
}

// Close stops intake, drains buffered events through the handler, and waits
// for delivery to finish. Add after Close panics (send on closed channel);
// close the sink only once emitters are done.
func (s *AsyncSink) Close() {
	s.closeOnce.Do(func() {
		close(s.events)
		<-s.done
	})
}

func (s *AsyncSink) deliver() {
	defer close(s.done)
	for event := range s.events {
		if s.handler != nil {
			s.handler(event)
		}
	}
}
