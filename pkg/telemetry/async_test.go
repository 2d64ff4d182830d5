package telemetry

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type capture struct {
	mu     sync.Mutex
	events []Event
}

func (c *capture) handler(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capture) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestAsyncSink_DeliversInOrder(t *testing.T) {
	c := &capture{}
	sink := NewAsyncSink(c.handler, 16, nil)

	sink.Add(Event{Type: EventConfig, Detail: "first"})
	sink.Add(Event{Type: EventConfig, Detail: "second"})
	sink.Close()

	events := c.snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Detail != "first" || events[1].Detail != "second" {
		t.Errorf("expected delivery order preserved, got %q then %q", events[0].Detail, events[1].Detail)
	}
}

func TestAsyncSink_CloseDrainsAndIsIdempotent(t *testing.T) {
	c := &capture{}
	sink := NewAsyncSink(c.handler, 64, nil)

	for i := 0; i < 50; i++ {
		sink.Add(Event{Type: EventConfig})
	}
	sink.Close()
	sink.Close()

	if got := len(c.snapshot()); got != 50 {
		t.Errorf("expected all 50 buffered events drained, got %d", got)
	}
}

func TestAsyncSink_DropsWhenFull(t *testing.T) {
	registry := prometheus.NewRegistry()

	// A blocked handler keeps the delivery goroutine busy so the buffer
	// fills deterministically.
	release := make(chan struct{})
	started := make(chan struct{})
	var startOnce sync.Once
	sink := NewAsyncSink(func(Event) {
		startOnce.Do(func() { close(started) })
		<-release
	}, 1, registry)

	sink.Add(Event{Type: EventConfig})
	<-started
	sink.Add(Event{Type: EventConfig})
	sink.Add(Event{Type: EventConfig})

	close(release)
	sink.Close()

	dropped := testutil.ToFloat64(sink.dropped)
	if dropped == 0 {
		t.Error("expected at least one dropped event to be counted")
	}
	emitted := testutil.ToFloat64(sink.emitted.WithLabelValues(string(EventConfig)))
	if emitted+dropped != 3 {
		t.Errorf("expected emitted+dropped = 3, got %v + %v", emitted, dropped)
	}
}

func TestAsyncSink_NilHandler(t *testing.T) {
	sink := NewAsyncSink(nil, 4, nil)
	sink.Add(Event{Type: EventConfig})
	sink.Close()
}

func TestNopSink(t *testing.T) {
	var sink Sink = NopSink{}
	sink.Add(Event{Type: EventConfig, Detail: "ignored"})
}
