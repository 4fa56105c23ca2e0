// Package deletion manages deferred, cancellable account deletion requests.
//
// A request records intent: the account owner asks for deletion, the
// service computes a deadline a fixed number of business days out, and the
// owner (or an operator) can cancel before that deadline. Nothing in this
// package executes the deletion itself; the deadline is a stored fact, not
// an armed trigger, and the purge job is a separately owned system.
package deletion

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a deletion request.
type Status string

// Status values. Absence of a row is the third, implicit state: the
// account has no outstanding request.
const (
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// Repository errors.
var (
	// ErrRequestNotFound is returned when no deletion request exists for
	// the referenced account or request ID.
	ErrRequestNotFound = errors.New("deletion request not found")

	// ErrNotPending is returned when a transition requires a PENDING
	// request but the stored request is in another state.
	ErrNotPending = errors.New("deletion request is not pending")

	// ErrUnavailable wraps storage failures. It is surfaced as its own
	// error so callers can decide on retry policy; it must never be
	// folded into "no pending deletion".
	ErrUnavailable = errors.New("deletion store unavailable")
)

// Request represents an account deletion request. At most one request
// exists per account at any time; re-requesting deletion overwrites the
// existing row and restarts the clock.
type Request struct {
	// ID is the unique request identifier (format: del_XXXX). It is
	// assigned on first insert and survives renewals of the same row.
	ID string

	// AccountID is the owning account. Unique across all requests.
	AccountID string

	// Reason is optional user-supplied free text. No semantic processing.
	Reason *string

	// Status is PENDING or CANCELLED.
	Status Status

	// RequestedAt is when the request was created or last renewed.
	RequestedAt time.Time

	// ScheduledFor is the computed deadline after which the deletion is
	// nominally irreversible.
	ScheduledFor time.Time

	// CancelledAt is set when the request transitions to CANCELLED;
	// nil while PENDING.
	CancelledAt *time.Time
}
