package deletion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/offboard/offboard/internal/account"
	"github.com/offboard/offboard/internal/api/models"
	"github.com/offboard/offboard/internal/featureflags"
	"github.com/offboard/offboard/internal/notify"
	"github.com/offboard/offboard/internal/schedule"
)

// Service errors.
var (
	// ErrDeletionsFrozen is returned while the operator kill-switch for
	// new deletion requests is active.
	ErrDeletionsFrozen = errors.New("deletion requests are temporarily frozen")
)

// Validation constants.
const (
	MaxReasonLength = 500
)

// DefaultLocale is used for deadline display when the account carries no
// locale of its own.
const DefaultLocale = "nl-NL"

// ServiceConfig holds configuration for the deletion service.
type ServiceConfig struct {
	Requests   Repository
	Accounts   account.Repository
	Dispatcher notify.Dispatcher
	Flags      *featureflags.Service
	Logger     zerolog.Logger

	// GracePeriodDays is the number of business days between a request
	// and its deadline. Defaults to schedule.DefaultGracePeriodDays.
	GracePeriodDays int

	// Weekend marks the weekdays excluded from the grace period.
	// Defaults to schedule.DefaultWeekend().
	Weekend map[time.Weekday]bool

	// Now returns the current instant. Defaults to time.Now; tests
	// inject a fixed clock.
	Now func() time.Time
}

// Service provides deletion request lifecycle operations.
type Service struct {
	requests   Repository
	accounts   account.Repository
	dispatcher notify.Dispatcher
	flags      *featureflags.Service
	logger     zerolog.Logger

	gracePeriodDays int
	weekend         map[time.Weekday]bool
	now             func() time.Time
}

// NewService creates a new deletion service.
func NewService(cfg ServiceConfig) *Service {
	gracePeriodDays := cfg.GracePeriodDays
	if gracePeriodDays == 0 {
		gracePeriodDays = schedule.DefaultGracePeriodDays
	}

	weekend := cfg.Weekend
	if weekend == nil {
		weekend = schedule.DefaultWeekend()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		requests:        cfg.Requests,
		accounts:        cfg.Accounts,
		dispatcher:      cfg.Dispatcher,
		flags:           cfg.Flags,
		logger:          cfg.Logger,
		gracePeriodDays: gracePeriodDays,
		weekend:         weekend,
		now:             now,
	}
}

// Request creates a deletion request for the account, or renews the
// existing one. Renewal restarts the grace period: requestedAt and
// scheduledFor are recomputed from now, a cancelled request becomes
// pending again, and the request keeps its original ID.
func (s *Service) Request(ctx context.Context, accountID string, input *models.DeletionRequestCreate) (*models.DeletionRequest, error) {
	if s.flags != nil && s.flags.IsDeletionFrozen(ctx) {
		return nil, ErrDeletionsFrozen
	}

	acc, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var reason *string
	if input != nil {
		reason = input.Reason
	}
	if fieldErrors := s.validateReason(ctx, reason); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := s.now()
	req, err := s.requests.Upsert(ctx, UpsertParams{
		ID:           "del_" + uuid.New().String()[:22],
		AccountID:    accountID,
		Reason:       reason,
		RequestedAt:  now,
		ScheduledFor: schedule.ComputeDeadline(now, s.gracePeriodDays, s.weekend),
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, req, notify.KindDeletionRequested)

	result := s.toAPIRequest(req, acc.Locale)
	return &result, nil
}

// Cancel cancels the account's pending deletion request.
// Returns ErrRequestNotFound if no request exists and ErrNotPending if
// the request was already cancelled.
func (s *Service) Cancel(ctx context.Context, accountID string) (*models.DeletionCancelResponse, error) {
	req, err := s.requests.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, ErrNotPending
	}

	cancelled, err := s.requests.MarkCancelled(ctx, req.ID, s.now())
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, cancelled, notify.KindDeletionCancelled)

	return &models.DeletionCancelResponse{
		ID:          cancelled.ID,
		Message:     "Your deletion request has been cancelled. Your account remains active.",
		CancelledAt: models.Timestamp(*cancelled.CancelledAt),
	}, nil
}

// Status reports whether the account has a pending deletion request.
// Absence of a request is a normal answer, not an error; only storage
// failures propagate.
func (s *Service) Status(ctx context.Context, accountID string) (*models.DeletionStatus, error) {
	req, err := s.requests.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			return &models.DeletionStatus{HasPendingDeletion: false}, nil
		}
		return nil, err
	}

	if req.Status != StatusPending {
		return &models.DeletionStatus{HasPendingDeletion: false}, nil
	}

	requestedAt := models.Timestamp(req.RequestedAt)
	scheduledFor := models.Timestamp(req.ScheduledFor)
	return &models.DeletionStatus{
		HasPendingDeletion: true,
		RequestID:          &req.ID,
		RequestedAt:        &requestedAt,
		ScheduledFor:       &scheduledFor,
	}, nil
}

// Reset removes the account's deletion request entirely, regardless of
// status. Administrative operation; no notification is emitted.
func (s *Service) Reset(ctx context.Context, accountID string) error {
	req, err := s.requests.FindByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	return s.requests.Delete(ctx, req.ID)
}

// ListAll retrieves every deletion request with account details attached,
// for the administrative listing. A request whose account can no longer
// be resolved is listed without the account summary.
func (s *Service) ListAll(ctx context.Context) (*models.AdminDeletionRequestList, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.AdminDeletionRequest, 0, len(requests))
	for _, req := range requests {
		item := models.AdminDeletionRequest{}

		acc, err := s.accounts.Get(ctx, req.AccountID)
		if err == nil {
			item.Account = &models.AccountSummary{
				ID:          acc.ID,
				Email:       acc.Email,
				DisplayName: acc.DisplayName,
			}
			item.DeletionRequest = s.toAPIRequest(req, acc.Locale)
		} else {
			if !errors.Is(err, account.ErrAccountNotFound) {
				s.logger.Warn().Err(err).Str("account_id", req.AccountID).Msg("failed to resolve account for deletion request listing")
			}
			item.DeletionRequest = s.toAPIRequest(req, DefaultLocale)
		}

		items = append(items, item)
	}

	return &models.AdminDeletionRequestList{
		Items: items,
		Total: len(items),
	}, nil
}

// validateReason validates the optional free-text reason.
func (s *Service) validateReason(ctx context.Context, reason *string) []models.FieldError {
	var errs []models.FieldError

	if s.flags != nil && s.flags.IsReasonRequired(ctx) && (reason == nil || *reason == "") {
		errs = append(errs, models.FieldError{Field: "reason", Message: "is required"})
	}
	if reason != nil && len(*reason) > MaxReasonLength {
		errs = append(errs, models.FieldError{Field: "reason", Message: "must be at most 500 characters"})
	}

	return errs
}

// dispatch emits a lifecycle notification after the state change has been
// persisted. Delivery is best-effort: a dispatch failure is logged and
// never fails the operation.
func (s *Service) dispatch(ctx context.Context, req *Request, kind string) {
	if s.dispatcher == nil {
		return
	}
	if s.flags != nil && s.flags.AreNotificationsDisabled(ctx) {
		return
	}

	var err error
	switch kind {
	case notify.KindDeletionRequested:
		err = s.dispatcher.DeletionRequested(ctx, notify.RequestedEvent{
			AccountID:    req.AccountID,
			RequestID:    req.ID,
			Reason:       req.Reason,
			ScheduledFor: req.ScheduledFor,
		})
	case notify.KindDeletionCancelled:
		err = s.dispatcher.DeletionCancelled(ctx, notify.CancelledEvent{
			AccountID:   req.AccountID,
			RequestID:   req.ID,
			CancelledAt: *req.CancelledAt,
		})
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("kind", kind).
			Str("request_id", req.ID).
			Msg("failed to dispatch lifecycle notification")
	}
}

// toAPIRequest converts a domain Request to an API DeletionRequest.
func (s *Service) toAPIRequest(req *Request, locale string) models.DeletionRequest {
	if locale == "" {
		locale = DefaultLocale
	}

	result := models.DeletionRequest{
		ID:                  req.ID,
		Status:              models.DeletionRequestStatus(req.Status),
		Reason:              req.Reason,
		RequestedAt:         models.Timestamp(req.RequestedAt),
		ScheduledFor:        models.Timestamp(req.ScheduledFor),
		ScheduledForDisplay: schedule.FormatDeadline(req.ScheduledFor, locale),
	}
	if req.CancelledAt != nil {
		cancelledAt := models.Timestamp(*req.CancelledAt)
		result.CancelledAt = &cancelledAt
	}
	return result
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
