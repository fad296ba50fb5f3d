// Package analytics defines the fire-and-forget analytics sink contract and
// a deferred emitter for post-commit event delivery.
package analytics

import (
	"context"
	"sync"
)

// Event is one analytics payload addressed to a distinct subject.
type Event struct {
	Name       string
	DistinctID string
	Properties map[string]any
}

// Sink accepts analytics events. Implementations must never block the
// calling operation and must swallow their own failures.
type Sink interface {
	Capture(ctx context.Context, event Event)
}

// NopSink discards all events.
type NopSink struct{}

// Capture implements Sink.
func (NopSink) Capture(context.Context, Event) {}

// Emitter delivers collected events to a sink on a background goroutine.
// Emission is decoupled from any transaction boundary: callers collect
// events while a transaction is open and hand them to EmitAsync only after
// a successful commit.
type Emitter struct {
	sink Sink
	wg   sync.WaitGroup
}

// NewEmitter creates an emitter for the given sink.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// EmitAsync delivers events in the background. It is a no-op when the
// emitter or sink is nil, and never returns an error.
func (e *Emitter) EmitAsync(events []Event) {
	if e == nil || e.sink == nil || len(events) == 0 {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for _, event := range events {
			e.sink.Capture(context.Background(), event)
		}
	}()
}

// Wait blocks until all in-flight emissions have drained. Intended for
// shutdown and tests.
func (e *Emitter) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}
