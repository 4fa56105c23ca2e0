package account

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewInMemoryRepository creates a new in-memory account repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		accounts: make(map[string]*Account),
	}
}

// Get retrieves an account by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}

	// Return a copy
	cpy := *acc
	return &cpy, nil
}

// Create creates a new account record.
func (r *InMemoryRepository) Create(_ context.Context, acc *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *acc
	r.accounts[acc.ID] = &cpy
	return nil
}

// Delete removes an account record.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
