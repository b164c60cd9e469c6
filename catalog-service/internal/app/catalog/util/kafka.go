package util

import (
	"context"
	"fmt"
	"time"

	"shopcatalog/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const metricsService = "catalog-service"

// KafkaProducer отправляет события о товарах в топик product_events
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer создает producer для списка брокеров ["host:port"]
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{}, // один товар - одна партиция, порядок событий сохраняется
		// Запрос не должен ждать накопления батча
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage отправляет одно событие. key - id товара.
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	return p.PublishMessages(ctx, []Message{{Key: key, Value: value}})
}

// PublishMessages отправляет события одним батчем
func (p *KafkaProducer) PublishMessages(ctx context.Context, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	now := time.Now()
	batch := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, kafka.Message{
			Key:   []byte(m.Key),
			Value: m.Value,
			Time:  now,
		})
	}

	timer := metrics.NewKafkaProduceTimer(metricsService, p.topic)
	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write messages to kafka: %w", err)
	}
	timer.Success(len(batch))

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется, когда KAFKA_BROKERS не задан
type NoopPublisher struct{}

func (NoopPublisher) PublishMessage(context.Context, string, []byte) error { return nil }

func (NoopPublisher) PublishMessages(context.Context, []Message) error { return nil }

func (NoopPublisher) Close() error { return nil }
