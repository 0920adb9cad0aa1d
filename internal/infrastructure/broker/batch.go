package broker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	interfaces "main/internal/domain/interfaces"
)

// BatchConfig controls request coalescing before publishing.
type BatchConfig struct {
	Size    int
	Timeout time.Duration
}

// RequestBuffer coalesces analysis requests on their way to the queue. A
// market scan can rediscover the same market many times in one sweep; only
// the first request per market id survives a flush window, so one sweep costs
// at most one run per market.
type RequestBuffer struct {
	cfg       BatchConfig
	publisher interfaces.RequestPublisher
	logger    *logrus.Entry

	mu      sync.Mutex
	pending map[string]interfaces.AnalysisRequest
	order   []string
	timer   *time.Timer
	ctx     context.Context
}

func NewRequestBuffer(cfg BatchConfig, publisher interfaces.RequestPublisher, logger *logrus.Logger) *RequestBuffer {
	return &RequestBuffer{
		cfg:       cfg,
		publisher: publisher,
		logger:    logger.WithField("component", "request_buffer"),
		pending:   make(map[string]interfaces.AnalysisRequest),
	}
}

// Run sets the base context for asynchronous flush operations.
func (rb *RequestBuffer) Run(ctx context.Context) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	rb.ctx = ctx
}

// Enqueue adds one request, dropping it silently when the same market is
// already pending. A full buffer flushes inline on the caller's goroutine.
func (rb *RequestBuffer) Enqueue(req interfaces.AnalysisRequest) error {
	if req.MarketID == "" {
		return errors.New("analysis request has no market id")
	}

	rb.mu.Lock()
	ctx := rb.ctx
	if ctx == nil {
		rb.mu.Unlock()
		return errors.New("request buffer is not running")
	}
	if err := ctx.Err(); err != nil {
		rb.mu.Unlock()
		return err
	}
	if _, dup := rb.pending[req.MarketID]; !dup {
		rb.pending[req.MarketID] = req
		rb.order = append(rb.order, req.MarketID)
	}
	var batch []interfaces.AnalysisRequest
	limit := rb.cfg.Size
	if limit <= 0 {
		limit = 1
	}
	if len(rb.order) >= limit {
		batch = rb.takeBatchLocked()
	} else if rb.timer == nil && rb.cfg.Timeout > 0 {
		rb.startTimerLocked()
	}
	rb.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return rb.flushWithContext(ctx, batch)
}

// Drain publishes whatever is pending using the provided context.
func (rb *RequestBuffer) Drain(ctx context.Context) error {
	batch := rb.takeBatch()
	if len(batch) == 0 {
		return nil
	}
	return rb.flushWithContext(ctx, batch)
}

func (rb *RequestBuffer) startTimerLocked() {
	timeout := rb.cfg.Timeout
	if timeout <= 0 {
		return
	}
	rb.timer = time.AfterFunc(timeout, func() {
		batch := rb.takeBatch()
		if len(batch) == 0 {
			return
		}
		rb.mu.Lock()
		ctx := rb.ctx
		rb.mu.Unlock()
		if err := rb.flushWithContext(ctx, batch); err != nil {
			rb.logger.WithError(err).Warn("request flush failed")
		}
	})
}

func (rb *RequestBuffer) takeBatch() []interfaces.AnalysisRequest {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.takeBatchLocked()
}

func (rb *RequestBuffer) takeBatchLocked() []interfaces.AnalysisRequest {
	if rb.timer != nil {
		rb.timer.Stop()
		rb.timer = nil
	}
	if len(rb.order) == 0 {
		return nil
	}
	batch := make([]interfaces.AnalysisRequest, 0, len(rb.order))
	for _, id := range rb.order {
		batch = append(batch, rb.pending[id])
	}
	rb.pending = make(map[string]interfaces.AnalysisRequest, len(rb.order))
	rb.order = rb.order[:0]
	return batch
}

func (rb *RequestBuffer) flushWithContext(ctx context.Context, batch []interfaces.AnalysisRequest) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	for _, req := range batch {
		if err := rb.publisher.PublishAnalysisRequest(ctx, req); err != nil {
			return err
		}
	}
	rb.logger.WithFields(logrus.Fields{
		"size":    len(batch),
		"took_ms": time.Since(start).Milliseconds(),
	}).Debug("flushed analysis requests")
	return nil
}
