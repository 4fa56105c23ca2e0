package deletion

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
//
// Requests are keyed by account ID, so the map itself enforces the
// one-request-per-account invariant under the single mutex.
type InMemoryRepository struct {
	mu        sync.Mutex
	byAccount map[string]*Request
	byID      map[string]string // request ID -> account ID
}

// NewInMemoryRepository creates a new in-memory deletion request repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byAccount: make(map[string]*Request),
		byID:      make(map[string]string),
	}
}

// Upsert creates or renews the request for the account.
func (r *InMemoryRepository) Upsert(_ context.Context, params UpsertParams) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byAccount[params.AccountID]
	if !ok {
		req = &Request{
			ID:        params.ID,
			AccountID: params.AccountID,
		}
		r.byAccount[params.AccountID] = req
		r.byID[params.ID] = params.AccountID
	}

	req.Reason = params.Reason
	req.Status = StatusPending
	req.RequestedAt = params.RequestedAt
	req.ScheduledFor = params.ScheduledFor
	req.CancelledAt = nil

	cpy := *req
	return &cpy, nil
}

// FindByAccount retrieves the request for an account.
func (r *InMemoryRepository) FindByAccount(_ context.Context, accountID string) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byAccount[accountID]
	if !ok {
		return nil, ErrRequestNotFound
	}

	cpy := *req
	return &cpy, nil
}

// MarkCancelled transitions a pending request to CANCELLED.
func (r *InMemoryRepository) MarkCancelled(_ context.Context, requestID string, cancelledAt time.Time) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountID, ok := r.byID[requestID]
	if !ok {
		return nil, ErrRequestNotFound
	}

	req := r.byAccount[accountID]
	if req.Status != StatusPending {
		return nil, ErrNotPending
	}

	req.Status = StatusCancelled
	at := cancelledAt
	req.CancelledAt = &at

	cpy := *req
	return &cpy, nil
}

// Delete removes the request row.
func (r *InMemoryRepository) Delete(_ context.Context, requestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountID, ok := r.byID[requestID]
	if !ok {
		return ErrRequestNotFound
	}

	delete(r.byAccount, accountID)
	delete(r.byID, requestID)
	return nil
}

// List retrieves all requests, most recently requested first.
func (r *InMemoryRepository) List(_ context.Context) ([]*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	requests := make([]*Request, 0, len(r.byAccount))
	for _, req := range r.byAccount {
		cpy := *req
		requests = append(requests, &cpy)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})

	return requests, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
