package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offboard/offboard/internal/account"
	"github.com/offboard/offboard/internal/api"
	"github.com/offboard/offboard/internal/api/models"
	"github.com/offboard/offboard/internal/auth"
	"github.com/offboard/offboard/internal/deletion"
	"github.com/offboard/offboard/internal/featureflags"
)

const testAccountID = "acc_testuser123"

// testAuthService creates an auth service for testing.
func testAuthService() *auth.Service {
	return auth.NewService(auth.Config{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.offboard.dev",
		Audience:   "offboard-api",
	})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.New(io.Discard)

	accounts := account.NewInMemoryRepository()
	err := accounts.Create(t.Context(), &account.Account{
		ID:          testAccountID,
		Email:       "tester@example.com",
		DisplayName: "Tester",
		Locale:      "en-GB",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	require.NoError(t, err)

	flagService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     logger,
	})

	deletionService := deletion.NewService(deletion.ServiceConfig{
		Requests: deletion.NewInMemoryRepository(),
		Accounts: accounts,
		Flags:    flagService,
		Logger:   logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "2026-01-01T00:00:00Z",
		Logger:             logger,
		AuthService:        testAuthService(),
		DeletionService:    deletionService,
		FeatureFlagService: flagService,
	})
}

// addAuthHeader adds a valid Bearer token to the request.
func addAuthHeader(t *testing.T, req *http.Request, scopes ...string) {
	t.Helper()
	token, _, err := testAuthService().GenerateAccessToken(testAccountID, scopes...)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
}

func TestRouter_DeletionLifecycle(t *testing.T) {
	router := newTestRouter(t)

	// Initially, no pending deletion.
	req := httptest.NewRequest(http.MethodGet, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var status models.DeletionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.HasPendingDeletion)

	// Request deletion with a reason.
	body, _ := json.Marshal(models.DeletionRequestCreate{Reason: strPtr("moving on")})
	req = httptest.NewRequest(http.MethodPost, "/v1/me/deletion-request", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/v1/me/deletion-request", w.Header().Get("Location"))

	var created models.DeletionRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.DeletionStatusPending, created.Status)
	assert.NotEmpty(t, created.ScheduledForDisplay)

	// Status now reports the pending request.
	req = httptest.NewRequest(http.MethodGet, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.HasPendingDeletion)
	require.NotNil(t, status.RequestID)
	assert.Equal(t, created.ID, *status.RequestID)

	// Cancel it.
	req = httptest.NewRequest(http.MethodDelete, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var cancelled models.DeletionCancelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, created.ID, cancelled.ID)
	assert.NotEmpty(t, cancelled.Message)

	// A second cancel is rejected: nothing is pending anymore.
	req = httptest.NewRequest(http.MethodDelete, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	// And status is back to no pending deletion.
	req = httptest.NewRequest(http.MethodGet, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.HasPendingDeletion)
}

func TestRouter_RequestDeletion_NoBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouter_CancelDeletion_NoRequest(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeNotFound, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_DeletionRequest_Unauthenticated(t *testing.T) {
	router := newTestRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/v1/me/deletion-request", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "method %s", method)
	}
}

func TestRouter_Admin_RequiresAdminScope(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/deletion-requests", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_Admin_ListAndReset(t *testing.T) {
	router := newTestRouter(t)

	// Create a deletion request as the regular account.
	req := httptest.NewRequest(http.MethodPost, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// List as admin.
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/deletion-requests", http.NoBody)
	addAuthHeader(t, req, auth.ScopeAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var list models.AdminDeletionRequestList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	require.NotNil(t, list.Items[0].Account)
	assert.Equal(t, testAccountID, list.Items[0].Account.ID)

	// Reset the account's request.
	req = httptest.NewRequest(http.MethodDelete, "/v1/admin/deletion-requests/"+testAccountID, http.NoBody)
	addAuthHeader(t, req, auth.ScopeAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	// Resetting again finds nothing.
	req = httptest.NewRequest(http.MethodDelete, "/v1/admin/deletion-requests/"+testAccountID, http.NoBody)
	addAuthHeader(t, req, auth.ScopeAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Admin_FeatureFlags(t *testing.T) {
	router := newTestRouter(t)

	// Freeze deletion requests via the flags endpoint.
	update := featureflags.FlagUpdateRequest{
		Updates: []featureflags.FlagUpdate{
			{Key: featureflags.FlagFreezeDeletionRequests, Value: true},
		},
		Reason: "incident response drill",
	}
	body, _ := json.Marshal(update)

	req := httptest.NewRequest(http.MethodPut, "/v1/admin/feature-flags", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req, auth.ScopeAdmin)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	// New deletion requests are now refused.
	req = httptest.NewRequest(http.MethodPost, "/v1/me/deletion-request", http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// The flag shows up in the listing.
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/feature-flags", http.NoBody)
	addAuthHeader(t, req, auth.ScopeAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var list featureflags.FlagList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.NotEmpty(t, list.Items)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func strPtr(s string) *string {
	return &s
}
