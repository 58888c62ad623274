package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-comfort-service/internal/config"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// EventPostCreated is the event_type header of accepted-post events.
const EventPostCreated = "post.created"

// PostCreatedEvent announces an accepted community post. It carries the
// public projection only, never the author's email.
type PostCreatedEvent struct {
	EventID    string            `json:"event_id"`
	EventType  string            `json:"event_type"`
	Post       domain.PublicPost `json:"post"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// PostWriter publishes accepted posts to a Kafka topic.
// It implements domain.PostPublisher.
type PostWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPostWriter creates a Kafka producer for the configured posts topic.
func NewPostWriter(cfg *config.Config, logger *slog.Logger) *PostWriter {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaPostsTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &PostWriter{writer: w, logger: logger}
}

// PublishPost writes one PostCreatedEvent keyed by post ID.
func (w *PostWriter) PublishPost(ctx context.Context, post domain.CommunityPost) error {
	msg, err := serializeToMessage(newPostCreatedEvent(post))
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish post %s: %w", post.ID, err)
	}
	w.logger.Debug("post event published", "post_id", post.ID, "topic", w.writer.Topic)
	return nil
}

func (w *PostWriter) Close() error {
	return w.writer.Close()
}

func newPostCreatedEvent(post domain.CommunityPost) PostCreatedEvent {
	return PostCreatedEvent{
		EventID:    uuid.NewString(),
		EventType:  EventPostCreated,
		Post:       post.Public(),
		OccurredAt: domain.Now(),
	}
}

// serializeToMessage marshals a PostCreatedEvent into a Kafka message.
func serializeToMessage(event PostCreatedEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize post event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Post.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
	}, nil
}
