package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"main/internal/config"
	interfaces "main/internal/domain/interfaces"
)

// Publisher pushes analysis requests onto the durable work queue. Safe for
// concurrent use; amqp channels are not, so publishes serialize on a mutex.
type Publisher struct {
	channel *amqp.Channel
	cfg     config.RabbitMQConfig
	logger  *logrus.Logger
	mu      sync.Mutex
}

func NewPublisher(conn *amqp.Connection, cfg config.RabbitMQConfig, logger *logrus.Logger) (*Publisher, error) {
	if cfg.Exchange == "" || cfg.RequestQueue == "" {
		return nil, errors.New("rabbitmq exchange and request queue are required")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	if err := declareRequestQueue(ch, cfg); err != nil {
		ch.Close()
		return nil, err
	}
	return &Publisher{channel: ch, cfg: cfg, logger: logger}, nil
}

func (p *Publisher) PublishAnalysisRequest(ctx context.Context, req interfaces.AnalysisRequest) error {
	if req.MarketID == "" {
		return errors.New("analysis request has no market id")
	}
	body, err := json.Marshal(RequestMessage{AnalysisRequest: &req})
	if err != nil {
		return fmt.Errorf("marshal analysis request: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.cfg.Exchange, p.cfg.RequestQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    req.RequestID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish analysis request for %s: %w", req.MarketID, err)
	}
	p.logger.WithFields(logrus.Fields{
		"market_id":  req.MarketID,
		"request_id": req.RequestID,
	}).Debug("analysis request published")
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.channel == nil {
		return nil
	}
	return p.channel.Close()
}

// declareRequestQueue sets up the durable exchange, the work queue, and the
// binding between them. Both publisher and consumer declare; the operations
// are idempotent, so boot order does not matter.
func declareRequestQueue(ch *amqp.Channel, cfg config.RabbitMQConfig) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	if _, err := ch.QueueDeclare(cfg.RequestQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.RequestQueue, err)
	}
	if err := ch.QueueBind(cfg.RequestQueue, cfg.RequestQueue, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", cfg.RequestQueue, cfg.Exchange, err)
	}
	return nil
}
