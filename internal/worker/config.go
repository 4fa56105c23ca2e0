// Package worker provides background delivery of lifecycle notifications.
//
// The API publishes deletion lifecycle events to a Pub/Sub topic; this
// worker consumes the subscription and forwards each event to the
// downstream webhook (mail pipeline, CRM sync). Delivery failures are
// nacked and redelivered by Pub/Sub.
package worker

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the notification delivery worker.
type Config struct {
	// ProjectID is the Google Cloud project of the subscription.
	ProjectID string

	// SubscriptionName is the Pub/Sub subscription carrying lifecycle events.
	SubscriptionName string

	// WebhookURL is the downstream endpoint events are forwarded to.
	WebhookURL string

	// MaxOutstandingMessages bounds concurrent deliveries. Default: 10.
	MaxOutstandingMessages int

	// DeliveryTimeout is the per-event delivery timeout. Default: 30s.
	DeliveryTimeout time.Duration
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	maxOutstanding, _ := strconv.Atoi(getEnvOrDefault("WORKER_MAX_OUTSTANDING", "10"))
	timeout, _ := time.ParseDuration(getEnvOrDefault("WORKER_DELIVERY_TIMEOUT", "30s"))

	return Config{
		ProjectID:              os.Getenv("PUBSUB_PROJECT_ID"),
		SubscriptionName:       getEnvOrDefault("PUBSUB_SUBSCRIPTION", "deletion-lifecycle-events"),
		WebhookURL:             os.Getenv("NOTIFY_WEBHOOK_URL"),
		MaxOutstandingMessages: maxOutstanding,
		DeliveryTimeout:        timeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
