package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-approval-metrics/internal/pkg/config"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const (
	deliveryTimeout = 10 * time.Second
	flushTimeoutMs  = 5000
)

// ProducerInterface is the part of *kafka.Producer used here.
type ProducerInterface interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaProducer publishes JSON events to a single topic.
type KafkaProducer struct {
	producer ProducerInterface
	topic    string
}

func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	kafkaConfig := &kafka.ConfigMap{
		"bootstrap.servers":  cfg.Server,
		"security.protocol":  cfg.SecurityProtocol,
		"sasl.mechanisms":    cfg.SASLMechanism,
		"sasl.username":      cfg.SASLUsername,
		"sasl.password":      cfg.SASLPassword,
		"client.id":          cfg.ClientID,
		"session.timeout.ms": cfg.SessionTimeoutMs,
	}

	producer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info(log_messages.KafkaProducerCreated, zap.String("topic", cfg.MetricsTopic))

	return NewKafkaProducerWithProducer(producer, cfg.MetricsTopic), nil
}

func NewKafkaProducerWithProducer(producer ProducerInterface, topic string) *KafkaProducer {
	return &KafkaProducer{producer: producer, topic: topic}
}

// Publish encodes message as JSON and waits for the broker's delivery report.
func (kp *KafkaProducer) Publish(ctx context.Context, key string, message any) error {
	value, err := json.Marshal(message)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err)
		return fmt.Errorf("failed to marshal kafka message: %w", err)
	}

	// Buffered and never closed: a late delivery report must not hit a closed channel.
	deliveryChan := make(chan kafka.Event, 1)

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
		Value:          value,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	if err := kp.producer.Produce(msg, deliveryChan); err != nil {
		logger.CtxError(ctx, "Failed to produce Kafka message", err)
		return err
	}

	timer := time.NewTimer(deliveryTimeout)
	defer timer.Stop()

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type %T", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
	case <-timer.C:
		return fmt.Errorf("timeout waiting for Kafka delivery report")
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Close flushes pending messages and closes the producer.
func (kp *KafkaProducer) Close() error {
	kp.producer.Flush(flushTimeoutMs)
	kp.producer.Close()
	return nil
}
