package account

import "context"

// Repository defines the interface for account lookups.
type Repository interface {
	// Get retrieves an account by ID. Returns ErrAccountNotFound if no
	// account exists with that ID.
	Get(ctx context.Context, id string) (*Account, error)

	// Create creates a new account record.
	Create(ctx context.Context, acc *Account) error

	// Delete removes an account record.
	Delete(ctx context.Context, id string) error
}
