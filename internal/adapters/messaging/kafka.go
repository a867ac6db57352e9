package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/domain/models"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
)

// SyncEvent — событие о завершенном прогоне синхронизации, публикуемое
// для подписчиков (аналитика, уведомления продавцу).
type SyncEvent struct {
	EventID       string    `json:"event_id"`
	StoreID       string    `json:"store_id"`
	Marketplace   string    `json:"marketplace"`
	Success       bool      `json:"success"`
	SyncedCount   int       `json:"synced_count"`
	ErrorCount    int       `json:"error_count"`
	TotalProducts int       `json:"total_products"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher определяет интерфейс публикации событий синхронизации.
type EventPublisher interface {
	PublishSyncCompleted(ctx context.Context, storeID string, result *models.SyncResult) error
	Close() error
}

// producerAPI покрывает используемое подмножество *kafka.Producer.
type producerAPI interface {
	Events() chan kafka.Event
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaPublisher реализация EventPublisher поверх Kafka.
type KafkaPublisher struct {
	producer  producerAPI
	topic     string
	logger    logger.Logger
	closeOnce sync.Once
}

// NewKafkaPublisher создает producer с надежной доставкой и батчингом.
func NewKafkaPublisher(brokers, topic string, log logger.Logger) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"client.id":         "storefront-service-producer",
		"acks":              "all",
		"retries":           5,
		"retry.backoff.ms":  500,
		"compression.type":  "snappy",
		"linger.ms":         10,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Kafka producer: %w", err)
	}

	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   log,
	}

	// Дренируем отчеты о доставке, чтобы внутренняя очередь не росла.
	go p.drainEvents()

	return p, nil
}

// drainEvents читает канал событий producer и логирует ошибки доставки.
func (p *KafkaPublisher) drainEvents() {
	for e := range p.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			p.logger.Error("Ошибка доставки события синхронизации",
				logger.Field{Key: "error", Value: m.TopicPartition.Error.Error()})
		}
	}
}

// PublishSyncCompleted публикует событие о завершенном прогоне.
// Ключ сообщения — store_id, чтобы события одного магазина шли по порядку.
func (p *KafkaPublisher) PublishSyncCompleted(ctx context.Context, storeID string, result *models.SyncResult) error {
	event := SyncEvent{
		EventID:       uuid.New().String(),
		StoreID:       storeID,
		Marketplace:   result.Marketplace,
		Success:       result.Success,
		SyncedCount:   result.SyncedCount,
		ErrorCount:    result.ErrorCount,
		TotalProducts: result.TotalProducts,
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(storeID),
		Value:          payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte("sync.completed")},
		},
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("ошибка публикации события: %w", err)
	}

	return nil
}

// Close дожидается отправки буферизованных сообщений и закрывает producer.
// Повторные вызовы безопасны: producer закрывается ровно один раз.
func (p *KafkaPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.producer.Flush(5000)
		p.producer.Close()
	})
	return nil
}

// NopPublisher используется, когда публикация событий выключена в конфигурации.
type NopPublisher struct{}

func (NopPublisher) PublishSyncCompleted(context.Context, string, *models.SyncResult) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
