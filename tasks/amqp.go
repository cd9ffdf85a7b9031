package tasks

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"
)

// publisher is the subset of *amqp.Channel used for scheduling.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPScheduler publishes tasks as persistent JSON messages to a durable queue
// through the default exchange.
type AMQPScheduler struct {
	ch    publisher
	queue string
}

// NewAMQPScheduler declares queue on ch and returns a scheduler publishing to it.
func NewAMQPScheduler(ch *amqp.Channel, queue string) (*AMQPScheduler, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}
	return &AMQPScheduler{ch: ch, queue: queue}, nil
}

// DialAMQP connects to the broker and opens a channel for scheduling.
func DialAMQP(url, queue string) (*AMQPScheduler, *amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	s, err := NewAMQPScheduler(ch, queue)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return s, conn, nil
}

func (s *AMQPScheduler) Schedule(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(task)
	if err != nil {
		return err
	}
	err = s.ch.Publish("", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         task.TaskName(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return nil
}
