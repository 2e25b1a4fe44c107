package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/service/interfaces"

	"cloud.google.com/go/pubsub/v2"
	"go.uber.org/zap"
)

// PubSubPublisher publishes JSON messages to Pub/Sub topics.
type PubSubPublisher struct {
	PubSubClient interfaces.PubSubPublisherClientInterface
	Ctx          context.Context
	Cancel       context.CancelFunc
}

// PubSubPublisherClientFactory makes new clients (mockable in tests).
type PubSubPublisherClientFactory interface {
	NewPubSubPublisherClient(ctx context.Context, projectID string) (interfaces.PubSubPublisherClientInterface, error)
}

type defaultPubSubPublisherClientFactory struct{}

func (f *defaultPubSubPublisherClientFactory) NewPubSubPublisherClient(ctx context.Context,
	projectID string) (interfaces.PubSubPublisherClientInterface, error) {
	sdkClient, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &pubSubPublisherClientAdapter{client: sdkClient}, nil
}

type pubSubPublisherClientAdapter struct {
	client *pubsub.Client
}

func (c *pubSubPublisherClientAdapter) Publisher(topic string) interfaces.PublisherInterface {
	return &publisherAdapter{publisher: c.client.Publisher(topic)}
}

func (c *pubSubPublisherClientAdapter) Close() error {
	return c.client.Close()
}

type publisherAdapter struct {
	publisher *pubsub.Publisher
}

// Publish blocks until the server acknowledges the message.
func (p *publisherAdapter) Publish(ctx context.Context, msg []byte) (string, error) {
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: msg,
	})
	return result.Get(ctx)
}

// NewPubSubPublisher is the default constructor for production use.
// Declared as a variable so tests can replace it.
var NewPubSubPublisher = func(ctx context.Context, projectID string) (*PubSubPublisher, error) {
	factory := &defaultPubSubPublisherClientFactory{}
	return NewPubSubPublisherWithFactory(ctx, projectID, factory)
}

func NewPubSubPublisherWithFactory(ctx context.Context, projectID string,
	factory PubSubPublisherClientFactory) (*PubSubPublisher, error) {
	client, err := factory.NewPubSubPublisherClient(ctx, projectID)
	if err != nil {
		logger.CtxError(ctx, "Failed creating PubSub client", err)
		return nil, err
	}
	logger.CtxInfo(ctx, log_messages.PubsubPublisherCreated, zap.String("projectId", projectID))

	publisherCtx, cancel := context.WithCancel(ctx)
	return &PubSubPublisher{
		PubSubClient: client,
		Ctx:          publisherCtx,
		Cancel:       cancel,
	}, nil
}

// Publish marshals message to JSON and publishes it. Raw []byte is sent as is.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, message any) (string, error) {
	var data []byte
	switch m := message.(type) {
	case []byte:
		data = m
	default:
		encoded, err := json.Marshal(message)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err)
			return "", fmt.Errorf("failed to marshal pubsub message: %w", err)
		}
		data = encoded
	}

	id, err := p.PubSubClient.Publisher(topic).Publish(ctx, data)
	if err != nil {
		return "", err
	}
	logger.CtxDebug(ctx, log_messages.PubsubMessagePublished,
		zap.String("topic", topic),
		zap.String("messageId", id),
	)
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	if p.Cancel != nil {
		p.Cancel()
	}
	return p.PubSubClient.Close()
}
