package deletion

import (
	"context"
	"time"
)

// UpsertParams carries the fields written by an upsert. ID is used only
// when the upsert inserts a fresh row; a renewal keeps the existing ID.
type UpsertParams struct {
	ID           string
	AccountID    string
	Reason       *string
	RequestedAt  time.Time
	ScheduledFor time.Time
}

// Repository defines the interface for deletion request persistence.
// Implementations own the single-request-per-account invariant: two
// concurrent upserts for the same account must never produce two rows,
// and upsert/cancel for one account must serialize.
type Repository interface {
	// Upsert atomically creates a PENDING request for the account or, if
	// a row already exists, overwrites reason, requestedAt and
	// scheduledFor, forces status back to PENDING and clears
	// cancelledAt. Returns the stored request.
	Upsert(ctx context.Context, params UpsertParams) (*Request, error)

	// FindByAccount retrieves the request for an account.
	// Returns ErrRequestNotFound if no row exists.
	FindByAccount(ctx context.Context, accountID string) (*Request, error)

	// MarkCancelled transitions the request to CANCELLED with the given
	// instant. Returns ErrRequestNotFound if the request does not exist
	// and ErrNotPending if it exists but is not PENDING; in neither case
	// is state mutated.
	MarkCancelled(ctx context.Context, requestID string, cancelledAt time.Time) (*Request, error)

	// Delete unconditionally removes the request row. Used only by the
	// administrative reset path. Returns ErrRequestNotFound if no row
	// exists.
	Delete(ctx context.Context, requestID string) error

	// List retrieves all requests, most recently requested first.
	List(ctx context.Context) ([]*Request, error)
}
