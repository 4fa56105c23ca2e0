package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
)

// PubSubDispatcher publishes lifecycle events to a Google Cloud Pub/Sub
// topic. The notification worker consumes the matching subscription and
// forwards events to the notification endpoint.
type PubSubDispatcher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
}

// PubSubConfig holds configuration for the Pub/Sub dispatcher.
type PubSubConfig struct {
	ProjectID string
	TopicName string
}

// NewPubSubDispatcher creates a new Pub/Sub dispatcher.
func NewPubSubDispatcher(ctx context.Context, cfg PubSubConfig) (*PubSubDispatcher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubDispatcher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
	}, nil
}

// DeletionRequested publishes a Requested event.
func (d *PubSubDispatcher) DeletionRequested(ctx context.Context, evt RequestedEvent) error {
	return d.publish(ctx, Envelope{
		Kind:      KindDeletionRequested,
		EmittedAt: time.Now(),
		Requested: &evt,
	})
}

// DeletionCancelled publishes a Cancelled event.
func (d *PubSubDispatcher) DeletionCancelled(ctx context.Context, evt CancelledEvent) error {
	return d.publish(ctx, Envelope{
		Kind:      KindDeletionCancelled,
		EmittedAt: time.Now(),
		Cancelled: &evt,
	})
}

func (d *PubSubDispatcher) publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", env.Kind, err)
	}

	result := d.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"kind": env.Kind,
		},
	})

	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing %s event: %w", env.Kind, err)
	}

	return nil
}

// Close releases the underlying Pub/Sub client.
func (d *PubSubDispatcher) Close() error {
	d.publisher.Stop()
	return d.client.Close()
}

// Ensure PubSubDispatcher implements Dispatcher interface.
var _ Dispatcher = (*PubSubDispatcher)(nil)
