package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/offboard/offboard/internal/api/response"
	"github.com/offboard/offboard/internal/deletion"
)

// AdminHandler handles administrative deletion request endpoints.
type AdminHandler struct {
	service *deletion.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *deletion.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListDeletionRequests handles GET /v1/admin/deletion-requests - list all
// deletion requests with account details.
func (h *AdminHandler) ListDeletionRequests(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListAll(r.Context())
	if err != nil {
		if errors.Is(err, deletion.ErrUnavailable) {
			response.ServiceUnavailable(w, r, "deletion store is temporarily unavailable")
			return
		}
		response.InternalError(w, r, "failed to list deletion requests")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// ResetDeletionRequest handles DELETE /v1/admin/deletion-requests/{accountId} -
// remove an account's deletion request entirely, whatever its state.
func (h *AdminHandler) ResetDeletionRequest(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	if accountID == "" {
		response.BadRequest(w, r, "accountId is required", nil)
		return
	}

	if err := h.service.Reset(r.Context(), accountID); err != nil {
		switch {
		case errors.Is(err, deletion.ErrRequestNotFound):
			response.NotFound(w, r, "no deletion request on file for this account")
		case errors.Is(err, deletion.ErrUnavailable):
			response.ServiceUnavailable(w, r, "deletion store is temporarily unavailable")
		default:
			response.InternalError(w, r, "failed to reset deletion request")
		}
		return
	}

	response.NoContent(w, r)
}
