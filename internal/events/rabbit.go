package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cabinets/internal/domain/models"
)

// Message is the JSON body published for an event
type Message struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	ActorID          string    `json:"actor_id"`
	TargetType       string    `json:"target_type"`
	TargetID         string    `json:"target_id"`
	ActionObjectType *string   `json:"action_object_type,omitempty"`
	ActionObjectID   *string   `json:"action_object_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewMessage converts an event into its wire form
func NewMessage(event *models.Event) Message {
	return Message{
		ID:               event.ID,
		Type:             event.Type(),
		ActorID:          event.ActorID,
		TargetType:       string(event.TargetType),
		TargetID:         event.TargetID,
		ActionObjectType: event.ActionObjectType,
		ActionObjectID:   event.ActionObjectID,
		CreatedAt:        event.CreatedAt,
	}
}

// RabbitPublisher publishes events to a topic exchange, routed by event
// type (e.g. "cabinets.cabinet_created").
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
}

// NewRabbitPublisher dials the broker and declares a durable topic exchange
func NewRabbitPublisher(amqpURL, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// Publish sends event as a persistent JSON message routed by its type
func (r *RabbitPublisher) Publish(ctx context.Context, event *models.Event) error {
	body, err := json.Marshal(NewMessage(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(ctx,
		r.exchange,
		event.Type(),
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         event.Type(),
			Body:         body,
			Timestamp:    event.CreatedAt,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type(), err)
	}
	return nil
}

// Close closes the channel, then the connection
func (r *RabbitPublisher) Close() error {
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}
