package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"jeongsan/mq/mq"
)

const (
	exchangeName     = "trip_dashboard_exchange"
	routingKeyPrefix = "dashboard."
	publishTimeout   = 5 * time.Second
	deliverTimeout   = time.Second
)

func routingKey(tripID uuid.UUID) string {
	return routingKeyPrefix + tripID.String()
}

// DeclareExchange declares the durable topic exchange dashboards go through.
func DeclareExchange(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchangeName, err)
	}
	return nil
}

type consumer struct {
	channel *amqp091.Channel
	done    chan struct{}
}

// DashboardQueue implements mq.DashboardMessageQueue on a RabbitMQ topic
// exchange. Every subscriber gets its own exclusive queue bound to the
// routing key of its trip.
type DashboardQueue struct {
	conn *amqp091.Connection

	pubMu   sync.Mutex // amqp channels must not publish concurrently
	channel *amqp091.Channel

	mu        sync.Mutex
	consumers map[uuid.UUID]*consumer
}

var _ mq.DashboardMessageQueue = (*DashboardQueue)(nil)

func NewDashboardQueue(conn *amqp091.Connection) (*DashboardQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if err := DeclareExchange(ch); err != nil {
		ch.Close()
		return nil, err
	}
	return &DashboardQueue{
		conn:      conn,
		channel:   ch,
		consumers: make(map[uuid.UUID]*consumer),
	}, nil
}

// Publish sends msg to the exchange under the routing key of its trip.
func (q *DashboardQueue) Publish(msg mq.DashboardMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	q.pubMu.Lock()
	defer q.pubMu.Unlock()
	err = q.channel.PublishWithContext(ctx,
		exchangeName,               // exchange
		routingKey(msg.GetTopic()), // routing key
		false,                      // mandatory
		false,                      // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe binds a fresh exclusive queue to the trip's routing key.
func (q *DashboardQueue) Subscribe(tripID uuid.UUID) (uuid.UUID, <-chan mq.DashboardMessage, error) {
	ch, err := q.conn.Channel()
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	queue, err := ch.QueueDeclare(
		"",    // name, server generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, routingKey(tripID), exchangeName, false, nil); err != nil {
		ch.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to bind queue %s: %w", queue.Name, err)
	}

	subscriberID := uuid.New()
	deliveries, err := ch.Consume(
		queue.Name,            // queue
		subscriberID.String(), // consumer
		true,                  // auto-ack
		true,                  // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		ch.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	c := &consumer{channel: ch, done: make(chan struct{})}
	out := make(chan mq.DashboardMessage)

	q.mu.Lock()
	q.consumers[subscriberID] = c
	q.mu.Unlock()

	go func() {
		defer func() {
			q.mu.Lock()
			if _, ok := q.consumers[subscriberID]; ok {
				delete(q.consumers, subscriberID)
				ch.Close()
			}
			q.mu.Unlock()
			close(out)
		}()

		for d := range deliveries {
			var msg mq.DashboardMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				slog.Warn("rabbit: unmarshal dashboard message", "error", err)
				continue
			}

			select {
			case out <- msg:
			case <-c.done:
				return
			case <-time.After(deliverTimeout):
				slog.Warn("rabbit: timeout sending to consumer, skipping", "subscriber", subscriberID)
			}
		}
	}()

	return subscriberID, out, nil
}

// DeSubscribe stops the consumer. Its channel is closed once the delivery
// goroutine exits.
func (q *DashboardQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	c, ok := q.consumers[subscriberID]
	if ok {
		delete(q.consumers, subscriberID)
	}
	q.mu.Unlock()

	if !ok {
		return fmt.Errorf("consumer with ID %s not found", subscriberID)
	}
	close(c.done)
	if err := c.channel.Close(); err != nil {
		return fmt.Errorf("failed to close consumer channel: %w", err)
	}
	return nil
}

// Close stops every consumer and closes the connection.
func (q *DashboardQueue) Close() error {
	q.mu.Lock()
	ids := make([]uuid.UUID, 0, len(q.consumers))
	for id := range q.consumers {
		ids = append(ids, id)
	}
	q.mu.Unlock()

	for _, id := range ids {
		_ = q.DeSubscribe(id)
	}
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
