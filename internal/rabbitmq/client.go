package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/PhotoShare/internal/config"
	"github.com/GoArmGo/PhotoShare/internal/messaging/payloads"
)

// Client представляет собой клиент RabbitMQ
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь событий
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Идемпотентно: очередь создается, только если ее еще нет
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("connected to RabbitMQ", "queue", q.Name, "messages", q.Messages)

	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close RabbitMQ connection: %w", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
	return nil
}

// PublishPhotoUploaded публикует событие о загруженном фото.
// Реализует ports.PhotoEventPublisher.
func (c *Client) PublishPhotoUploaded(ctx context.Context, payload payloads.PhotoUploadedPayload) error {
	if payload.EventID == "" {
		payload.EventID = uuid.NewString()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    payload.EventID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Info("photo uploaded event published", "queue", c.queue.Name, "event_id", payload.EventID, "photo_id", payload.PhotoID)
	return nil
}

// StartConsumingPhotoUploaded начинает потребление событий из очереди.
// Реализует ports.PhotoEventConsumer.
func (c *Client) StartConsumingPhotoUploaded(ctx context.Context, handler func(context.Context, payloads.PhotoUploadedPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go consume(ctx, msgs, handler, c.logger)
	return nil
}

// acknowledger - часть amqp.Delivery, нужная для подтверждений
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// consume обрабатывает сообщения до закрытия канала или отмены контекста
func consume(ctx context.Context, msgs <-chan amqp.Delivery, handler func(context.Context, payloads.PhotoUploadedPayload) error, logger *slog.Logger) {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("RabbitMQ channel closed, stopping consumer")
				return
			}
			handleDelivery(ctx, msg.Body, msg.MessageId, &msg, handler, logger)
		case <-ctx.Done():
			logger.Info("context cancelled, stopping RabbitMQ consumer")
			return
		}
	}
}

func handleDelivery(
	ctx context.Context,
	body []byte,
	messageID string,
	ack acknowledger,
	handler func(context.Context, payloads.PhotoUploadedPayload) error,
	logger *slog.Logger,
) {
	var payload payloads.PhotoUploadedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// битое сообщение не возвращаем в очередь, иначе оно будет приходить бесконечно
		logger.Error("error unmarshalling message", "message_id", messageID, "error", err)
		if err := ack.Nack(false, false); err != nil {
			logger.Error("error NACKing message after unmarshal failure", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		logger.Error("error processing message", "event_id", payload.EventID, "error", err)
		if err := ack.Nack(false, true); err != nil {
			logger.Error("error NACKing message after processing failure", "error", err)
		}
		return
	}

	if err := ack.Ack(false); err != nil {
		logger.Error("error ACKing message", "error", err)
		return
	}
	logger.Info("message processed and ACKed", "event_id", payload.EventID, "photo_id", payload.PhotoID)
}
