package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// matchPromotedQueue receives one event per promoted match. Downstream
// notification workers consume it; nothing in this process does.
const matchPromotedQueue = "match.promoted"

const publishTimeout = 5 * time.Second

// MatchPromotedEvent is the payload published when a movie crosses the
// match threshold in a session.
type MatchPromotedEvent struct {
	SessionID  string   `json:"sessionId"`
	MovieID    string   `json:"movieId"`
	Likes      []string `json:"likes"`
	PromotedAt string   `json:"promotedAt"`
}

// EventPublisher publishes domain events to RabbitMQ. It dials per
// publish and never panics; errors are logged and returned so callers
// can ignore them without interrupting the request flow.
type EventPublisher struct {
	URL string
}

// PublishMatchPromoted publishes event to the match.promoted queue.
// Messages are persistent and the queue declaration is idempotent.
func (ep *EventPublisher) PublishMatchPromoted(ctx context.Context, event MatchPromotedEvent) error {
	if ep.URL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	conn, err := amqp.Dial(ep.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		matchPromotedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal match event: %w", err)
	}

	if err := ch.PublishWithContext(ctx, "", matchPromotedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
