package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL account repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an account by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Account, error) {
	query := `
		SELECT account_id, email, display_name, locale, created_at, updated_at
		FROM accounts
		WHERE account_id = $1
	`

	var acc Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Email,
		&acc.DisplayName,
		&acc.Locale,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &acc, nil
}

// Create creates a new account record.
func (r *PostgresRepository) Create(ctx context.Context, acc *Account) error {
	query := `
		INSERT INTO accounts (account_id, email, display_name, locale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		acc.ID,
		acc.Email,
		acc.DisplayName,
		acc.Locale,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	return err
}

// Delete removes an account record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE account_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
