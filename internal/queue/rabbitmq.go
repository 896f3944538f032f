package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

type QueueName string

const (
	QueueMail QueueName = "mail_queue"
)

const (
	MAX_QUEUE_RETRY = 3
)

// Publisher is the part of RabbitMQ the api process needs.
type Publisher interface {
	Publish(routingKey QueueName, body []byte) error
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Declare a queue to ensure it exists before publishing messages
	_, err = channel.QueueDeclare(
		string(QueueMail), // name of the queue
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
	}, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	if err := r.conn.Close(); err != nil {
		return err
	}
	return nil
}

func (r *RabbitMQ) Publish(routingKey QueueName, body []byte) error {
	err := r.channel.Publish(
		"", // default exchange
		string(routingKey),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			// make message persistent even if RabbitMQ restarts or crashes
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		return err
	}
	return nil
}

// Consume starts an unacknowledged delivery stream. RabbitMQ keeps at most prefetch
// messages in flight so a slow worker does not hoard the queue.
// Docs: https://www.rabbitmq.com/tutorials/tutorial-two-go#fair-dispatch
func (r *RabbitMQ) Consume(queueName QueueName, prefetch int) (<-chan amqp.Delivery, error) {
	if prefetch < 1 {
		prefetch = 1
	}
	if err := r.channel.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	return r.channel.Consume(
		string(queueName), // name of the queue
		"",                // consumer tag
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // arguments
	)
}

func (r *RabbitMQ) Ack(delivery amqp.Delivery) error {
	return delivery.Ack(false)
}

func (r *RabbitMQ) Nack(delivery amqp.Delivery, requeue bool) error {
	return delivery.Nack(false, requeue)
}
