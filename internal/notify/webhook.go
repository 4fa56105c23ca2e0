package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/offboard/offboard/internal/notify/resilience"
)

// WebhookDispatcher delivers lifecycle events to a notification endpoint
// over HTTP. Transient failures are retried with exponential backoff and a
// circuit breaker shields the endpoint when it is down; a persistent
// failure surfaces as an error the caller is expected to log and discard.
type WebhookDispatcher struct {
	endpoint string
	client   *resilience.Client
}

// WebhookConfig holds configuration for the webhook dispatcher.
type WebhookConfig struct {
	// Endpoint is the URL lifecycle events are POSTed to.
	Endpoint string

	// Client is the resilient HTTP client to use. If nil, a client with
	// default settings is created.
	Client *resilience.Client
}

// NewWebhookDispatcher creates a new WebhookDispatcher.
func NewWebhookDispatcher(cfg WebhookConfig) *WebhookDispatcher {
	client := cfg.Client
	if client == nil {
		client = resilience.NewClient(resilience.DefaultClientConfig("notification-webhook"))
	}

	return &WebhookDispatcher{
		endpoint: cfg.Endpoint,
		client:   client,
	}
}

// DeletionRequested delivers a Requested event to the endpoint.
func (d *WebhookDispatcher) DeletionRequested(ctx context.Context, evt RequestedEvent) error {
	return d.post(ctx, Envelope{
		Kind:      KindDeletionRequested,
		EmittedAt: time.Now(),
		Requested: &evt,
	})
}

// DeletionCancelled delivers a Cancelled event to the endpoint.
func (d *WebhookDispatcher) DeletionCancelled(ctx context.Context, evt CancelledEvent) error {
	return d.post(ctx, Envelope{
		Kind:      KindDeletionCancelled,
		EmittedAt: time.Now(),
		Cancelled: &evt,
	})
}

func (d *WebhookDispatcher) post(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", env.Kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", env.Kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering %s event: %w", env.Kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("delivering %s event: endpoint returned %d", env.Kind, resp.StatusCode)
	}

	return nil
}

// Ensure WebhookDispatcher implements Dispatcher interface.
var _ Dispatcher = (*WebhookDispatcher)(nil)
