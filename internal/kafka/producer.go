package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the notification payload consumed by the email worker.
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	Reference  string    `json:"reference"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	TotalPrice float64   `json:"total_price"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventBookingCreated     = "booking_created"
	EventBookingCancelled   = "booking_cancelled"
	EventConfirmationResend = "confirmation_resend"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
