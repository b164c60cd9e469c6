package util

import (
	"context"
	"time"
)

// Message - сообщение для батчевой отправки
type Message struct {
	Key   string
	Value []byte
}

// MessagePublisher интерфейс для отправки событий в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	PublishMessages(ctx context.Context, messages []Message) error
	Close() error
}

// RateCounter - счетчик запросов в фиксированном окне
type RateCounter interface {
	// IncrWindow увеличивает счетчик key и возвращает новое значение.
	// Окно начинается с первого инкремента.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}
