// Package kafka streams tracking events to Kafka topics so that services outside the
// process can follow deliveries.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/pkg/errs"

	"github.com/IBM/sarama"
)

// ErrPublisherIsClosed is returned by Publish after Close.
var ErrPublisherIsClosed = errors.New("kafka publisher is closed")

// Topics names the destination topic of each event type.
type Topics struct {
	Status   string
	Location string
}

// NewProducerConfig returns the producer configuration used for tracking events.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	// SyncProducer requires successes to be returned.
	cfg.Producer.Return.Successes = true
	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.ReadTimeout = 10 * time.Second
	cfg.Net.WriteTimeout = 10 * time.Second
	return cfg
}

// NewSyncProducer connects a synchronous producer to the given brokers.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return producer, nil
}

// Publisher writes events as JSON messages keyed by order id, so every event of an order
// lands on the same partition.
type Publisher struct {
	producer sarama.SyncProducer
	topics   Topics
	logger   *slog.Logger
	closed   atomic.Bool
}

// NewPublisher wraps producer. Both topics are required.
func NewPublisher(producer sarama.SyncProducer, topics Topics, logger *slog.Logger) (*Publisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	if topics.Status == "" {
		return nil, errs.NewValueIsRequiredError("status topic")
	}
	if topics.Location == "" {
		return nil, errs.NewValueIsRequiredError("location topic")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		producer: producer,
		topics:   topics,
		logger:   logger.With("component", "KafkaPublisher"),
	}, nil
}

type locationPayload struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

type eventPayload struct {
	Type     string           `json:"type"`
	OrderID  string           `json:"orderId"`
	Status   string           `json:"status,omitempty"`
	Location *locationPayload `json:"location,omitempty"`
}

// Publish sends the event and waits for the brokers to acknowledge it.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	if p.closed.Load() {
		return ErrPublisherIsClosed
	}

	topic, payload, err := p.encode(event)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.OrderID().String()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", event.Type(), topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		"topic", topic, "orderId", event.OrderID().String(), "partition", partition, "offset", offset)
	return nil
}

func (p *Publisher) encode(event events.Event) (string, []byte, error) {
	msg := eventPayload{Type: event.Type(), OrderID: event.OrderID().String()}

	var topic string
	switch e := event.(type) {
	case events.DeliveryStatusChanged:
		topic = p.topics.Status
		msg.Status = e.Status.String()
	case events.LocationUpdated:
		topic = p.topics.Location
		msg.Location = &locationPayload{
			Lat:       e.Location.Lat(),
			Lng:       e.Location.Lng(),
			Timestamp: e.Location.TimestampMillis(),
		}
	default:
		return "", nil, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("unsupported event type %q", event.Type()))
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", nil, fmt.Errorf("marshal %s: %w", event.Type(), err)
	}
	return topic, payload, nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.producer.Close()
}
