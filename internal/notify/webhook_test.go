package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offboard/offboard/internal/notify"
	"github.com/offboard/offboard/internal/notify/resilience"
)

func testClient(name string) *resilience.Client {
	return resilience.NewClient(resilience.ClientConfig{
		Name:            name,
		Timeout:         time.Second,
		MaxRetries:      1,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
	})
}

func TestWebhookDispatcher_DeletionRequested(t *testing.T) {
	var received notify.Envelope

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	dispatcher := notify.NewWebhookDispatcher(notify.WebhookConfig{
		Endpoint: server.URL,
		Client:   testClient("test-requested"),
	})

	scheduledFor := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	err := dispatcher.DeletionRequested(context.Background(), notify.RequestedEvent{
		AccountID:    "acc_123",
		RequestID:    "del_456",
		ScheduledFor: scheduledFor,
	})
	require.NoError(t, err)

	assert.Equal(t, notify.KindDeletionRequested, received.Kind)
	require.NotNil(t, received.Requested)
	assert.Equal(t, "acc_123", received.Requested.AccountID)
	assert.Equal(t, "del_456", received.Requested.RequestID)
	assert.True(t, received.Requested.ScheduledFor.Equal(scheduledFor))
	assert.Nil(t, received.Cancelled)
}

func TestWebhookDispatcher_DeletionCancelled(t *testing.T) {
	var received notify.Envelope

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dispatcher := notify.NewWebhookDispatcher(notify.WebhookConfig{
		Endpoint: server.URL,
		Client:   testClient("test-cancelled"),
	})

	err := dispatcher.DeletionCancelled(context.Background(), notify.CancelledEvent{
		AccountID:   "acc_123",
		RequestID:   "del_456",
		CancelledAt: time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, notify.KindDeletionCancelled, received.Kind)
	require.NotNil(t, received.Cancelled)
	assert.Equal(t, "acc_123", received.Cancelled.AccountID)
}

func TestWebhookDispatcher_EndpointRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	dispatcher := notify.NewWebhookDispatcher(notify.WebhookConfig{
		Endpoint: server.URL,
		Client:   testClient("test-reject"),
	})

	err := dispatcher.DeletionRequested(context.Background(), notify.RequestedEvent{
		AccountID: "acc_123",
		RequestID: "del_456",
	})
	assert.Error(t, err)
}

func TestLogDispatcher(t *testing.T) {
	dispatcher := notify.NewLogDispatcher(zerolog.Nop())

	require.NoError(t, dispatcher.DeletionRequested(context.Background(), notify.RequestedEvent{
		AccountID: "acc_1",
		RequestID: "del_1",
	}))
	require.NoError(t, dispatcher.DeletionCancelled(context.Background(), notify.CancelledEvent{
		AccountID: "acc_1",
		RequestID: "del_1",
	}))
}
