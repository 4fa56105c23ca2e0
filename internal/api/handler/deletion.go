package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/offboard/offboard/internal/account"
	"github.com/offboard/offboard/internal/api/models"
	"github.com/offboard/offboard/internal/api/response"
	"github.com/offboard/offboard/internal/deletion"
)

// DeletionHandler handles the account deletion lifecycle endpoints.
type DeletionHandler struct {
	service *deletion.Service
}

// NewDeletionHandler creates a new DeletionHandler.
func NewDeletionHandler(service *deletion.Service) *DeletionHandler {
	return &DeletionHandler{service: service}
}

// RequestDeletion handles POST /v1/me/deletion-request - request account deletion.
// The body is optional; an absent body means a request without a reason.
func (h *DeletionHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	var input models.DeletionRequestCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Request(r.Context(), GetAccountID(r.Context()), &input)
	if err != nil {
		var validationErr *deletion.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "validation failed", validationErr.Errors)
		case errors.Is(err, deletion.ErrDeletionsFrozen):
			response.ServiceUnavailable(w, r, "deletion requests are temporarily unavailable")
		case errors.Is(err, account.ErrAccountNotFound):
			response.NotFound(w, r, "account not found")
		case errors.Is(err, deletion.ErrUnavailable):
			response.ServiceUnavailable(w, r, "deletion store is temporarily unavailable")
		default:
			response.InternalError(w, r, "failed to create deletion request")
		}
		return
	}

	response.Created(w, r, "/v1/me/deletion-request", result)
}

// CancelDeletion handles DELETE /v1/me/deletion-request - cancel a pending
// deletion request.
func (h *DeletionHandler) CancelDeletion(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Cancel(r.Context(), GetAccountID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, deletion.ErrRequestNotFound):
			response.NotFound(w, r, "no deletion request on file")
		case errors.Is(err, deletion.ErrNotPending):
			response.BadRequest(w, r, "deletion request is not pending", nil)
		case errors.Is(err, deletion.ErrUnavailable):
			response.ServiceUnavailable(w, r, "deletion store is temporarily unavailable")
		default:
			response.InternalError(w, r, "failed to cancel deletion request")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// DeletionStatus handles GET /v1/me/deletion-request - report whether the
// account has a pending deletion. Absence of a request is a 200, never an
// error.
func (h *DeletionHandler) DeletionStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Status(r.Context(), GetAccountID(r.Context()))
	if err != nil {
		if errors.Is(err, deletion.ErrUnavailable) {
			response.ServiceUnavailable(w, r, "deletion store is temporarily unavailable")
			return
		}
		response.InternalError(w, r, "failed to query deletion status")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
