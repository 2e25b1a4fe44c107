package interfaces

import "context"

type KafkaProducerInterface interface {
	Publish(ctx context.Context, key string, message any) error
	Close() error
}
