package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQClient struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

// queueDeclarer is the part of amqp.Channel used at startup.
type queueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// New connects to the broker and declares the queues the service publishes
// to and consumes from. Queues are durable so fetch tasks and price updates
// survive a broker restart.
func New(url string, queues ...string) (*RabbitMQClient, error) {
	const op = "rabbitmq.New"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := declareQueues(ch, queues); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RabbitMQClient{
		conn:    conn,
		Channel: ch,
	}, nil
}

func declareQueues(ch queueDeclarer, queues []string) error {
	for _, queue := range queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %q: %w", queue, err)
		}
	}

	return nil
}

func (c *RabbitMQClient) Close() error {
	const op = "rabbitmq.Close"

	if err := c.Channel.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
