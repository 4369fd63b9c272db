package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"disaster-relief/beacon/internal/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChangeFeed carries report INSERT/UPDATE events over a RabbitMQ fanout
// exchange. Every subscriber gets its own exclusive queue, so each connected
// session sees every event.
type ChangeFeed struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewChangeFeed dials RabbitMQ and declares the event exchange.
func NewChangeFeed(url, exchange string) (*ChangeFeed, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &ChangeFeed{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish broadcasts a change event. A publish failure is logged but never
// fails the write that triggered it; subscribers recover via full refetch.
func (f *ChangeFeed) Publish(ctx context.Context, ev ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = f.ch.PublishWithContext(pubCtx,
		f.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe opens a push channel of change events. The returned teardown
// releases the consumer and its queue; callers must invoke it on session
// end so no subscription dangles across identity changes.
func (f *ChangeFeed) Subscribe(ctx context.Context) (<-chan ChangeEvent, func(), error) {
	ch, err := f.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open subscriber channel: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("failed to declare subscriber queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", f.exchange, false, nil); err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("failed to bind subscriber queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, nil, fmt.Errorf("failed to start consumer: %w", err)
	}

	out := make(chan ChangeEvent)
	done := make(chan struct{})
	log := logging.WithComponent("change_feed")

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal(d.Body, &ev); err != nil {
					log.Warnw("Dropping undecodable change event", "error", err.Error())
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			close(done)
			ch.Close()
		})
	}

	return out, teardown, nil
}

// Close releases the publisher connection.
func (f *ChangeFeed) Close() {
	f.ch.Close()
	f.conn.Close()
}
