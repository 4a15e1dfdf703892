package rabbitmq

import (
	"context"
	"time"

	"github.com/0xDracarys/ABAYA-ecom-v1/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Cfg     *config.Config
}

func NewRabbitMQ(cfg *config.Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQ{
		Conn:    conn,
		Channel: ch,
		Cfg:     cfg,
	}, nil
}

// Setup declares the catalog exchange and queue and binds them.
func (r *RabbitMQ) Setup() error {
	err := r.Channel.ExchangeDeclare(
		r.Cfg.CatalogExchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	_, err = r.Channel.QueueDeclare(
		r.Cfg.CatalogQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	return r.Channel.QueueBind(
		r.Cfg.CatalogQueue,
		"", // routing key
		r.Cfg.CatalogExchange,
		false,
		nil,
	)
}

func (r *RabbitMQ) PublishEvent(ctx context.Context, body []byte) error {
	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    time.Now(),
	}

	return r.Channel.PublishWithContext(ctx,
		r.Cfg.CatalogExchange,
		"",    // routing key
		false, // mandatory
		false, // immediate
		msg,
	)
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		_ = r.Channel.Close()
	}
	if r.Conn != nil {
		_ = r.Conn.Close()
	}
}
