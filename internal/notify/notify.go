// Package notify defines the lifecycle event contract between the deletion
// core and the external notification collaborator.
//
// Dispatch is strictly best-effort: the caller writes to the store first,
// attempts dispatch after, and logs (never propagates) dispatch failures.
// No ordering or delivery guarantee is placed on the collaborator beyond
// "attempted after persistence succeeds".
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Event kinds carried in the envelope, used by consumers to route events.
const (
	KindDeletionRequested = "deletion.requested"
	KindDeletionCancelled = "deletion.cancelled"
)

// RequestedEvent is emitted after a deletion request is created or renewed.
type RequestedEvent struct {
	AccountID    string    `json:"accountId"`
	RequestID    string    `json:"requestId"`
	Reason       *string   `json:"reason,omitempty"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

// CancelledEvent is emitted after a pending deletion request is cancelled.
type CancelledEvent struct {
	AccountID   string    `json:"accountId"`
	RequestID   string    `json:"requestId"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// Envelope wraps a lifecycle event with its kind for wire transport.
type Envelope struct {
	Kind      string          `json:"kind"`
	EmittedAt time.Time       `json:"emittedAt"`
	Requested *RequestedEvent `json:"requested,omitempty"`
	Cancelled *CancelledEvent `json:"cancelled,omitempty"`
}

// Dispatcher delivers lifecycle events to the notification collaborator.
type Dispatcher interface {
	// DeletionRequested delivers a Requested event.
	DeletionRequested(ctx context.Context, evt RequestedEvent) error

	// DeletionCancelled delivers a Cancelled event.
	DeletionCancelled(ctx context.Context, evt CancelledEvent) error
}

// LogDispatcher writes lifecycle events to the log and nothing else.
// Used in local development and as a fallback when no transport is
// configured.
type LogDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher creates a new LogDispatcher.
func NewLogDispatcher(logger zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// DeletionRequested logs a Requested event.
func (d *LogDispatcher) DeletionRequested(_ context.Context, evt RequestedEvent) error {
	d.logger.Info().
		Str("account_id", evt.AccountID).
		Str("request_id", evt.RequestID).
		Time("scheduled_for", evt.ScheduledFor).
		Msg("deletion requested")
	return nil
}

// DeletionCancelled logs a Cancelled event.
func (d *LogDispatcher) DeletionCancelled(_ context.Context, evt CancelledEvent) error {
	d.logger.Info().
		Str("account_id", evt.AccountID).
		Str("request_id", evt.RequestID).
		Time("cancelled_at", evt.CancelledAt).
		Msg("deletion cancelled")
	return nil
}

// Ensure LogDispatcher implements Dispatcher interface.
var _ Dispatcher = (*LogDispatcher)(nil)
