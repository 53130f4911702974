package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type LeadCreatedPayload struct {
	LeadID     string    `json:"lead_id,omitempty"`
	UserID     int64     `json:"user_id"`
	ClientName string    `json:"client_name"`
	Service    string    `json:"service"`
	CreatedAt  time.Time `json:"created_at"`
}

// Channel is the part of *amqp.Channel the producer needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	ch       Channel
	exchange string
}

func NewProducer(ch Channel, exchange string) *RabbitMQProducer {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &RabbitMQProducer{
		ch:       ch,
		exchange: exchange,
	}
}

func (p *RabbitMQProducer) PublishLeadCreated(ctx context.Context, payload LeadCreatedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode lead event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		LeadCreatedKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.CreatedAt,
			Type:         LeadCreatedKey,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}

	return nil
}
