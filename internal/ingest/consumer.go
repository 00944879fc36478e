package ingest

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/config"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
)

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
}

func NewConsumer(cfg config.RabbitMQConfig) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		config:  cfg,
	}, nil
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// Delivery is the part of amqp.Delivery the dispatch loop needs.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consume declares the order queue and feeds every delivery to handle until
// ctx is cancelled or the channel closes.
func (c *Consumer) Consume(ctx context.Context, handle func(context.Context, []byte) error) error {
	queue := c.config.OrderQueue
	_, err := c.channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := c.channel.ConsumeWithContext(ctx,
		queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info("consuming order queue", zap.String("queue", queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", queue)
			}
			mctx := logger.WithContext(ctx, log.With(zap.String("message_id", msg.MessageId)))
			Dispatch(mctx, &msg, msg.Body, handle)
		}
	}
}

// Dispatch runs handle on one message and settles it: success and
// unrecoverable input are acked, other failures are requeued.
func Dispatch(ctx context.Context, d Delivery, body []byte, handle func(context.Context, []byte) error) {
	log := logger.FromContext(ctx)
	err := handle(ctx, body)

	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("ack failed", zap.Error(ackErr))
		}
	case Retryable(err):
		log.Warn("order message failed, requeueing", zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("nack failed", zap.Error(nackErr))
		}
	default:
		log.Warn("order message rejected, dropping", zap.Error(err))
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("ack failed", zap.Error(ackErr))
		}
	}
}
