package mq

import (
	"fmt"
	"time"

	contractmq "missioncontrol/contracts/mq"

	"github.com/rabbitmq/amqp091-go"
)

// DeclareDLQQueue declares <routingKey>.dlq bound to the dead letter exchange.
func DeclareDLQQueue(ch *amqp091.Channel, routingKey string) (amqp091.Queue, error) {
	q, err := ch.QueueDeclare(fmt.Sprintf("%s.dlq", routingKey), true, false, false, false, nil)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, contractmq.DeadLetterExchange, false, nil); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind DLQ queue: %w", err)
	}
	return q, nil
}

// PublishToDLQ parks a message that cannot be processed, with the reason in its headers.
func (p *Publisher) PublishToDLQ(routingKey string, payload []byte, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.Publish(
		contractmq.DeadLetterExchange,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Headers: amqp091.Table{
				"x-original-error": reason,
				"x-failed-at":      "mission-control-worker",
			},
		},
	)
}
