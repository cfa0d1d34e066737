package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// defaultDialTimeout bounds the connect and handshake of each publish so
// an unreachable broker cannot hold a write request for amqp's 30s default.
const defaultDialTimeout = 2 * time.Second

// Publisher sends villa change events to RabbitMQ.  Each publish opens its
// own connection, so a broker outage only affects the events raised while
// it lasts.
type Publisher struct {
	url         string
	dialTimeout time.Duration
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, dialTimeout: defaultDialTimeout}
}

// PublishVillaChanged publishes ev to the villa.changed queue as a
// persistent JSON message.
func (p *Publisher) PublishVillaChanged(ctx context.Context, ev VillaChangedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declareVillaQueue(ch); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Event,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",             // default exchange
		VillaQueueName, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// declareVillaQueue is idempotent; publisher and consumer both call it.
func declareVillaQueue(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		VillaQueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
