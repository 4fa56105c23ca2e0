package notify

import (
	"context"
	"time"
)

// DispatchRecorder records timing and outcome of a dispatch attempt.
// Implemented by middleware.DispatcherMetrics.
type DispatchRecorder interface {
	RecordDispatch(transport, kind string, duration time.Duration, err error)
}

// InstrumentedDispatcher wraps a Dispatcher and records metrics for each
// dispatch attempt.
type InstrumentedDispatcher struct {
	inner     Dispatcher
	recorder  DispatchRecorder
	transport string
}

// NewInstrumentedDispatcher wraps the given dispatcher. The transport
// label identifies the underlying delivery mechanism ("log", "webhook",
// "pubsub") in the emitted metrics.
func NewInstrumentedDispatcher(inner Dispatcher, recorder DispatchRecorder, transport string) *InstrumentedDispatcher {
	return &InstrumentedDispatcher{
		inner:     inner,
		recorder:  recorder,
		transport: transport,
	}
}

// DeletionRequested dispatches the event and records the attempt.
func (d *InstrumentedDispatcher) DeletionRequested(ctx context.Context, event RequestedEvent) error {
	start := time.Now()
	err := d.inner.DeletionRequested(ctx, event)
	d.recorder.RecordDispatch(d.transport, KindDeletionRequested, time.Since(start), err)
	return err
}

// DeletionCancelled dispatches the event and records the attempt.
func (d *InstrumentedDispatcher) DeletionCancelled(ctx context.Context, event CancelledEvent) error {
	start := time.Now()
	err := d.inner.DeletionCancelled(ctx, event)
	d.recorder.RecordDispatch(d.transport, KindDeletionCancelled, time.Since(start), err)
	return err
}

var _ Dispatcher = (*InstrumentedDispatcher)(nil)
