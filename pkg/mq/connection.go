package mq

import (
	"fmt"
	"time"

	contractmq "missioncontrol/contracts/mq"

	"github.com/rabbitmq/amqp091-go"
)

const heartbeat = 10 * time.Second

type exchange struct {
	name string
	kind string
}

// topology is every exchange a worker process publishes to or binds on.
var topology = []exchange{
	{name: contractmq.EventsExchange, kind: amqp091.ExchangeTopic},
	{name: contractmq.DeadLetterExchange, kind: amqp091.ExchangeTopic},
}

// connectionConfig names the connection so it can be told apart in the broker UI.
func connectionConfig(name string) amqp091.Config {
	props := amqp091.NewConnectionProperties()
	props.SetClientConnectionName(name)
	return amqp091.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
	}
}

// openChannel dials url and returns a channel with the exchanges declared.
// On error nothing is left open.
func openChannel(url, name string) (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.DialConfig(url, connectionConfig(name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, ex := range topology {
		if err := ch.ExchangeDeclare(ex.name, ex.kind, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", ex.name, err)
		}
	}
	return conn, ch, nil
}
