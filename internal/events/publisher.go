package events

import (
	"context"
	"encoding/json"
	"fmt"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/logger"

	"github.com/IBM/sarama"
)

// KafkaPublisher writes booking events to one topic, keyed by item-day.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_1_0_0
	cfg.ClientID = "menu-booking-backend"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewPublisher(producer, topic), nil
}

// NewPublisher wraps an existing producer.
func NewPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode booking event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}

	logger.ExternalServiceCall("kafka", "publish", "topic", p.topic, "type", event.Type, "reservationID", event.ReservationID)
	partition, offset, err := p.producer.SendMessage(msg)
	logger.ExternalServiceResult("kafka", "publish", err, "partition", partition, "offset", offset)
	return err
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	logger.Debug("Event publishing disabled", "type", event.Type, "reservationID", event.ReservationID)
	return nil
}

func (NoopPublisher) Close() error { return nil }
