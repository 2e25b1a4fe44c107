package interfaces

import (
	"context"
)

type PubSubPublisherInterface interface {
	Publish(ctx context.Context, topic string, message any) (string, error)
	Close() error
}

// PubSubPublisherClientInterface wraps the SDK client so tests can swap it.
type PubSubPublisherClientInterface interface {
	Publisher(topic string) PublisherInterface
	Close() error
}

type PublisherInterface interface {
	Publish(ctx context.Context, msg []byte) (string, error)
}
