// Package notify delivers session reminders to the platform's notification
// fan-out via RabbitMQ.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the name of the topic exchange for reminder messages.
	ExchangeName = "coursecast.reminders"
)

// reminderMessage is the wire payload for one reminder. Downstream channel
// workers (push, email, in-app) bind their queues by routing key.
type reminderMessage struct {
	RecipientRef uuid.UUID `json:"recipient_ref"`
	ReminderKind string    `json:"reminder_kind"`
	SessionID    uuid.UUID `json:"session_id"`
	LiveClassID  uuid.UUID `json:"live_class_id"`
	Slot         string    `json:"slot"`
	StartsAt     time.Time `json:"starts_at"`
	IsFree       bool      `json:"is_free"`
}

// AMQPSender implements domain.NotificationSender on a RabbitMQ topic
// exchange. The routing key is "reminder.<kind>" so channels can subscribe
// to individual kinds.
type AMQPSender struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewAMQPSender connects to RabbitMQ and declares the reminder exchange.
func NewAMQPSender(url string, logger *slog.Logger) (*AMQPSender, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("reminder sender connected",
		"exchange", ExchangeName,
	)

	return &AMQPSender{
		conn:     conn,
		channel:  ch,
		exchange: ExchangeName,
		logger:   logger,
	}, nil
}

// Send publishes one reminder for one recipient.
func (s *AMQPSender) Send(ctx context.Context, recipient uuid.UUID, kind domain.ReminderKind, session domain.SessionContext) error {
	payload, err := json.Marshal(reminderMessage{
		RecipientRef: recipient,
		ReminderKind: string(kind),
		SessionID:    session.SessionID,
		LiveClassID:  session.LiveClassID,
		Slot:         string(session.Slot),
		StartsAt:     session.StartsAt,
		IsFree:       session.IsFree,
	})
	if err != nil {
		return fmt.Errorf("failed to encode reminder: %w", err)
	}

	routingKey := "reminder." + string(kind)

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.channel.PublishWithContext(ctx,
		s.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         payload,
		},
	)
	if err != nil {
		s.logger.Error("failed to publish reminder",
			"routing_key", routingKey,
			"session_id", session.SessionID,
			"error", err,
		)
		return err
	}

	s.logger.Debug("reminder published",
		"routing_key", routingKey,
		"session_id", session.SessionID,
		"recipient", recipient,
	)

	return nil
}

// Close closes the sender connection.
func (s *AMQPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			s.logger.Warn("error closing channel", "error", err)
		}
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			return err
		}
	}

	s.logger.Info("reminder sender closed")
	return nil
}
