package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

// fakeProducer реализует producerAPI и считает вызовы закрытия.
type fakeProducer struct {
	events   chan kafka.Event
	produced []*kafka.Message
	flushes  int
	closes   int
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{events: make(chan kafka.Event, 1)}
}

func (f *fakeProducer) Events() chan kafka.Event { return f.events }

func (f *fakeProducer) Produce(msg *kafka.Message, _ chan kafka.Event) error {
	f.produced = append(f.produced, msg)
	return nil
}

func (f *fakeProducer) Flush(timeoutMs int) int {
	f.flushes++
	return 0
}

func (f *fakeProducer) Close() {
	f.closes++
}

func TestPublishSyncCompleted_BuildsEvent(t *testing.T) {
	producer := newFakeProducer()
	publisher := &KafkaPublisher{producer: producer, topic: "store-sync-events", logger: logger.NewNop()}

	result := &models.SyncResult{
		Success:       true,
		Marketplace:   models.MarketplaceWildberries,
		SyncedCount:   7,
		ErrorCount:    1,
		TotalProducts: 8,
	}

	err := publisher.PublishSyncCompleted(context.Background(), "store-1", result)
	require.NoError(t, err)
	require.Len(t, producer.produced, 1)

	msg := producer.produced[0]
	assert.Equal(t, "store-sync-events", *msg.TopicPartition.Topic)
	// Ключ — store_id, чтобы события одного магазина шли по порядку
	assert.Equal(t, []byte("store-1"), msg.Key)

	var event SyncEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "store-1", event.StoreID)
	assert.Equal(t, models.MarketplaceWildberries, event.Marketplace)
	assert.Equal(t, 7, event.SyncedCount)
	assert.Equal(t, 8, event.TotalProducts)
	assert.NotEmpty(t, event.EventID)
}

func TestClose_IsIdempotent(t *testing.T) {
	producer := newFakeProducer()
	publisher := &KafkaPublisher{producer: producer, topic: "store-sync-events", logger: logger.NewNop()}

	require.NoError(t, publisher.Close())
	require.NoError(t, publisher.Close())

	assert.Equal(t, 1, producer.closes)
	assert.Equal(t, 1, producer.flushes)
}
