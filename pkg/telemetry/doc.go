// Package telemetry carries typed events from the configuration runtime to
// an external sink.
//
// # Overview
//
// Events have a fixed classification (EventType), a short human-readable
// detail, and a flat key-value payload. Sinks are fire-and-forget: Add never
// blocks and never fails, so emitting telemetry cannot stall or break
// configuration resolution. Transport and buffering behind the sink are out
// of scope here.
//
// # Usage
//
//	sink := telemetry.NewAsyncSink(handler, 0, nil)
//	defer sink.Close()
//
//	mgr.SendConfigTelemetry(sink)
//
// AsyncSink drops events when its buffer is full and counts emissions and
// drops as Prometheus metrics. NopSink discards everything and is the usual
// choice in tests.
package telemetry
