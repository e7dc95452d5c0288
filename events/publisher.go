// Package events publishes messaging domain events for downstream platform
// consumers (notifications, analytics). Publishing is best-effort: a failed
// publish is logged and never surfaced to the sender.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jobdesk/messaging_backend/models"
)

type MessageSentEvent struct {
	EventID        string    `json:"eventId"`
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId"`
	SenderID       string    `json:"senderId"`
	ReceiverID     string    `json:"receiverId"`
	SentAt         time.Time `json:"sentAt"`
}

type Publisher interface {
	MessageSent(ctx context.Context, msg *models.Message)
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.SugaredLogger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		log: log,
	}
}

func (p *KafkaPublisher) MessageSent(ctx context.Context, msg *models.Message) {
	event := MessageSentEvent{
		EventID:        uuid.NewString(),
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID.Hex(),
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		SentAt:         msg.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Errorw("marshal message-sent event", "error", err)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ConversationID),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		p.log.Errorw("publish message-sent event", "error", err, "messageId", event.MessageID)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) MessageSent(context.Context, *models.Message) {}
func (NoopPublisher) Close() error                                 { return nil }
