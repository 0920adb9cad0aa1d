package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	appanalysis "main/internal/application/service/analysis"
	"main/internal/config"
	domain "main/internal/domain/entity/analysis"
)

var errBadMessage = errors.New("malformed analysis request")

// Consumer pulls analysis requests off the work queue and runs them through
// the analysis service, one at a time. Acknowledgement policy: transient
// venue trouble requeues the request, terminal outcomes (including recorded
// failures) ack it, malformed payloads are dropped.
type Consumer struct {
	cfg     config.RabbitMQConfig
	service *appanalysis.Service
	logger  *logrus.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
	wg      sync.WaitGroup
}

// NewConsumer prepares a consumer for the given configuration.
func NewConsumer(cfg config.RabbitMQConfig, service *appanalysis.Service, logger *logrus.Logger) (*Consumer, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	return &Consumer{cfg: cfg, service: service, logger: logger}, nil
}

// Start establishes the AMQP connection and begins consuming the work queue.
func (c *Consumer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	c.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		c.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	c.channel = ch
	if err := declareRequestQueue(ch, c.cfg); err != nil {
		c.Close()
		return err
	}
	// One run in flight per worker; a run is the unit of retry.
	if err := ch.Qos(1, 0, false); err != nil {
		c.Close()
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(c.cfg.RequestQueue, "", false, false, false, false, nil)
	if err != nil {
		c.Close()
		return fmt.Errorf("start consume: %w", err)
	}

	c.wg.Add(1)
	go c.consumeLoop(ctx, deliveries)

	c.logger.WithField("queue", c.cfg.RequestQueue).Info("analysis consumer started")
	return nil
}

// Close stops consumption and waits for the in-flight run to settle.
func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.wg.Wait()
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	log := c.logger.WithField("queue", c.cfg.RequestQueue)
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			err := c.handleDelivery(ctx, &delivery)
			switch {
			case err == nil:
				if ackErr := delivery.Ack(false); ackErr != nil {
					log.WithError(ackErr).Warn("failed to ack delivery")
				}
			case errors.Is(err, errBadMessage):
				log.WithError(err).Warn("dropping malformed request")
				_ = delivery.Nack(false, false)
			case requeueable(err):
				log.WithError(err).Warn("requeueing analysis request")
				_ = delivery.Nack(false, true)
			default:
				// Terminal failure, already recorded; retrying the same
				// inputs cannot change the outcome.
				log.WithError(err).Warn("analysis failed terminally")
				if ackErr := delivery.Ack(false); ackErr != nil {
					log.WithError(ackErr).Warn("failed to ack delivery")
				}
			}
		}
	}
}

// handleDelivery decodes and executes one request. A nil return means the run
// reached a terminal state worth acking, including a NO_EDGE outcome.
func (c *Consumer) handleDelivery(ctx context.Context, delivery *amqp.Delivery) error {
	var payload RequestMessage
	if err := json.Unmarshal(delivery.Body, &payload); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	if payload.AnalysisRequest == nil {
		return fmt.Errorf("%w: request payload is nil", errBadMessage)
	}
	req := payload.AnalysisRequest

	state, err := c.service.AnalyzeMarket(ctx, req.MarketID, req.Type)
	if err != nil {
		return err
	}

	entry := c.logger.WithFields(logrus.Fields{
		"market_id":  req.MarketID,
		"request_id": req.RequestID,
	})
	if state != nil && state.Result != nil {
		entry = entry.WithField("action", string(state.Result.Action))
	}
	entry.Info("analysis request processed")
	return nil
}

// requeueable reports whether retrying the same request later could succeed.
// Typed pipeline outcomes are deterministic for the same inputs; transient
// venue and infrastructure trouble is not.
func requeueable(err error) bool {
	var ingErr *domain.IngestionError
	if errors.As(err, &ingErr) {
		return ingErr.Code == domain.IngestionAPIUnavailable || ingErr.Code == domain.IngestionRateLimitExceeded
	}
	var recErr *domain.RecommendationError
	if errors.As(err, &recErr) {
		return false
	}
	if errors.Is(err, domain.ErrStepBudgetExceeded) {
		return false
	}
	return true
}
