package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"double-paws/internal/domain/registration"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RoutingKeyRegistrationSubmitted = "registration.submitted"

// channel es lo que usamos de *amqp.Channel.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implementa registration.Notifier publicando en un exchange topic.
type Publisher struct {
	ch       channel
	exchange string
	timeout  time.Duration
	now      func() time.Time
}

// Dial conecta, abre un canal y declara el exchange.
func Dial(dsn, exchange string, timeout time.Duration) (*Publisher, *amqp.Connection, error) {
	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	p, err := NewPublisher(ch, exchange, timeout)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return p, conn, nil
}

func NewPublisher(ch channel, exchange string, timeout time.Duration) (*Publisher, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("rabbitmq declare exchange %q: %w", exchange, err)
	}
	return &Publisher{ch: ch, exchange: exchange, timeout: timeout, now: time.Now}, nil
}

func (p *Publisher) RegistrationSubmitted(ctx context.Context, ev registration.SubmittedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		RoutingKeyRegistrationSubmitted,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.SessionID,
			Timestamp:    p.now(),
			Type:         RoutingKeyRegistrationSubmitted,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
