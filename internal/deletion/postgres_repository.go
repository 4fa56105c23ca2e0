package deletion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
//
// The deletion_requests table carries a unique constraint on account_id;
// Upsert relies on it so that concurrent requests for the same account
// resolve to a single row without application-level locking.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL deletion request repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Upsert creates or renews the request for the account. On conflict the
// existing row keeps its request ID; everything else is overwritten and
// the status is forced back to PENDING.
func (r *PostgresRepository) Upsert(ctx context.Context, params UpsertParams) (*Request, error) {
	query := `
		INSERT INTO deletion_requests (request_id, account_id, reason, status, requested_at, scheduled_for, cancelled_at)
		VALUES ($1, $2, $3, 'PENDING', $4, $5, NULL)
		ON CONFLICT (account_id) DO UPDATE SET
			reason = EXCLUDED.reason,
			status = 'PENDING',
			requested_at = EXCLUDED.requested_at,
			scheduled_for = EXCLUDED.scheduled_for,
			cancelled_at = NULL
		RETURNING request_id, account_id, reason, status, requested_at, scheduled_for, cancelled_at
	`

	row := r.pool.QueryRow(ctx, query,
		params.ID,
		params.AccountID,
		params.Reason,
		params.RequestedAt,
		params.ScheduledFor,
	)

	req, err := scanRequest(row)
	if err != nil {
		return nil, fmt.Errorf("%w: upsert deletion request: %v", ErrUnavailable, err)
	}
	return req, nil
}

// FindByAccount retrieves the request for an account.
func (r *PostgresRepository) FindByAccount(ctx context.Context, accountID string) (*Request, error) {
	query := `
		SELECT request_id, account_id, reason, status, requested_at, scheduled_for, cancelled_at
		FROM deletion_requests
		WHERE account_id = $1
	`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("%w: find deletion request: %v", ErrUnavailable, err)
	}
	return req, nil
}

// MarkCancelled transitions a pending request to CANCELLED. The status
// guard lives in the WHERE clause so the transition is a single atomic
// statement; a zero-row update is disambiguated with a follow-up read.
func (r *PostgresRepository) MarkCancelled(ctx context.Context, requestID string, cancelledAt time.Time) (*Request, error) {
	query := `
		UPDATE deletion_requests
		SET status = 'CANCELLED', cancelled_at = $2
		WHERE request_id = $1 AND status = 'PENDING'
		RETURNING request_id, account_id, reason, status, requested_at, scheduled_for, cancelled_at
	`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, requestID, cancelledAt))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: cancel deletion request: %v", ErrUnavailable, err)
	}

	// No pending row matched: distinguish "gone" from "not pending".
	var status Status
	err = r.pool.QueryRow(ctx,
		`SELECT status FROM deletion_requests WHERE request_id = $1`,
		requestID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("%w: cancel deletion request: %v", ErrUnavailable, err)
	}
	return nil, ErrNotPending
}

// Delete removes the request row.
func (r *PostgresRepository) Delete(ctx context.Context, requestID string) error {
	query := `DELETE FROM deletion_requests WHERE request_id = $1`

	tag, err := r.pool.Exec(ctx, query, requestID)
	if err != nil {
		return fmt.Errorf("%w: delete deletion request: %v", ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// List retrieves all requests, most recently requested first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Request, error) {
	query := `
		SELECT request_id, account_id, reason, status, requested_at, scheduled_for, cancelled_at
		FROM deletion_requests
		ORDER BY requested_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list deletion requests: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list deletion requests: %v", ErrUnavailable, err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list deletion requests: %v", ErrUnavailable, err)
	}

	return requests, nil
}

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(
		&req.ID,
		&req.AccountID,
		&req.Reason,
		&req.Status,
		&req.RequestedAt,
		&req.ScheduledFor,
		&req.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
