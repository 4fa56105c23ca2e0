package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/offboard/offboard/internal/notify"
)

// PubSubHandler consumes lifecycle events from Pub/Sub and forwards them
// to the configured dispatcher.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       notify.Dispatcher
	deliveryTimeout  time.Duration
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID              string
	SubscriptionName       string
	Dispatcher             notify.Dispatcher
	MaxOutstandingMessages int
	DeliveryTimeout        time.Duration
	Logger                 zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	maxOutstanding := cfg.MaxOutstandingMessages
	if maxOutstanding == 0 {
		maxOutstanding = 10
	}
	deliveryTimeout := cfg.DeliveryTimeout
	if deliveryTimeout == 0 {
		deliveryTimeout = 30 * time.Second
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = maxOutstanding
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       cfg.Dispatcher,
		deliveryTimeout:  deliveryTimeout,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	ctx, cancel := context.WithTimeout(ctx, h.deliveryTimeout)
	defer cancel()

	outcome := Deliver(ctx, h.dispatcher, msg.Data)
	switch outcome.Result {
	case DeliveryMalformed:
		// A malformed event will never parse on redelivery.
		logger.Error().Err(outcome.Err).Msg("dropping malformed lifecycle event")
		msg.Ack()
	case DeliveryUnknownKind:
		logger.Warn().Str("kind", outcome.Kind).Msg("unknown event kind")
		msg.Ack() // Ack unknown messages to prevent redelivery
	case DeliveryFailed:
		logger.Error().Err(outcome.Err).Str("kind", outcome.Kind).Msg("delivery failed")
		msg.Nack()
	case DeliveryOK:
		logger.Info().
			Str("kind", outcome.Kind).
			Dur("duration", time.Since(startTime)).
			Msg("event delivered")
		msg.Ack()
	}
}

// DeliveryResult classifies the outcome of a delivery attempt.
type DeliveryResult int

// Delivery outcomes.
const (
	DeliveryOK DeliveryResult = iota
	DeliveryMalformed
	DeliveryUnknownKind
	DeliveryFailed
)

// DeliveryOutcome carries the result of processing one event payload.
type DeliveryOutcome struct {
	Result DeliveryResult
	Kind   string
	Err    error
}

// Deliver parses a lifecycle event envelope and forwards it to the
// dispatcher. Separated from the Pub/Sub plumbing so the ack decision
// is testable without a broker.
func Deliver(ctx context.Context, dispatcher notify.Dispatcher, data []byte) DeliveryOutcome {
	var envelope notify.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return DeliveryOutcome{Result: DeliveryMalformed, Err: err}
	}

	var err error
	switch envelope.Kind {
	case notify.KindDeletionRequested:
		if envelope.Requested == nil {
			return DeliveryOutcome{
				Result: DeliveryMalformed,
				Kind:   envelope.Kind,
				Err:    fmt.Errorf("envelope kind %q without payload", envelope.Kind),
			}
		}
		err = dispatcher.DeletionRequested(ctx, *envelope.Requested)
	case notify.KindDeletionCancelled:
		if envelope.Cancelled == nil {
			return DeliveryOutcome{
				Result: DeliveryMalformed,
				Kind:   envelope.Kind,
				Err:    fmt.Errorf("envelope kind %q without payload", envelope.Kind),
			}
		}
		err = dispatcher.DeletionCancelled(ctx, *envelope.Cancelled)
	default:
		return DeliveryOutcome{Result: DeliveryUnknownKind, Kind: envelope.Kind}
	}

	if err != nil {
		return DeliveryOutcome{Result: DeliveryFailed, Kind: envelope.Kind, Err: err}
	}
	return DeliveryOutcome{Result: DeliveryOK, Kind: envelope.Kind}
}
