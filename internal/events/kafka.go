// Package events publishes record-change events to Kafka after a committed
// write and consumes them to invalidate list caches on every replica. The
// stream is observational only; request handling never depends on it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"todo-service/internal/cache"
	"todo-service/internal/config"
	"todo-service/internal/models"
	"todo-service/pkg/logger"
)

// Producer writes record events. A nil *Producer is valid and publishes
// nothing, so the service runs without Kafka.
type Producer struct {
	writer  *kafka.Writer
	topic   string
	brokers []string
}

// NewProducer builds the async Kafka writer when KAFKA_BROKERS is configured,
// and ensures the topic exists. Returns nil (events disabled) otherwise.
func NewProducer(ctx context.Context, cfg *config.Config) *Producer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info(ctx, "Event stream disabled (no KAFKA_BROKERS)")
		return nil
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.LeastBytes{},
			Async:        true,
			RequiredAcks: kafka.RequireOne,
		},
		topic:   cfg.KafkaTopic,
		brokers: cfg.KafkaBrokers,
	}
	p.ensureTopic(ctx)
	logger.Info(ctx, "Kafka producer initialized", "topic", p.topic, "brokers", p.brokers)
	return p
}

// ensureTopic creates the events topic (idempotent). If it fails, e.g. no
// broker reachable yet, the app still runs.
func (p *Producer) ensureTopic(ctx context.Context) {
	conn, err := kafka.Dial("tcp", p.brokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             p.topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
	}
}

// Close flushes and closes the writer.
func (p *Producer) Close() {
	if p != nil {
		_ = p.writer.Close()
	}
}

// Publish emits a record event. Failures are logged and dropped; the write
// that triggered the event has already committed.
func (p *Producer) Publish(ctx context.Context, entity, action string, recordID int64) {
	if p == nil {
		return
	}
	ev := models.RecordEvent{
		ID:         uuid.New().String(),
		Entity:     entity,
		Action:     action,
		RecordID:   recordID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	msg := kafka.Message{Key: []byte(entity), Value: payload}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Debug(ctx, "Event publish failed", "error", err, "entity", entity, "action", action)
	}
}

// RunInvalidator consumes record events and drops the affected list keys from
// the local cache. Every replica runs its own consumer group so each sees
// every event; without Kafka or a cache there is nothing to do.
func RunInvalidator(ctx context.Context, cfg *config.Config, c *cache.Cache) {
	if len(cfg.KafkaBrokers) == 0 || c == nil {
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  "cache-invalidator-" + uuid.New().String(),
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Cache invalidator started", "topic", cfg.KafkaTopic)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Invalidator fetch failed", "error", err)
			continue
		}
		handleEvent(ctx, c, msg.Value)
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Invalidator commit failed", "error", err)
		}
	}
}

func handleEvent(ctx context.Context, c *cache.Cache, payload []byte) {
	var ev models.RecordEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		logger.Error(ctx, "Invalidator decode failed", "error", err)
		return
	}
	switch ev.Entity {
	case "todo":
		c.Invalidate(ctx, cache.TodosListKey)
	case "user":
		c.Invalidate(ctx, cache.UsersListKey)
	}
}
