package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
)

// BatchLoader writes multiple impact events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.ImpactEvent) error
}

const (
	initialBackoff     = 200 * time.Millisecond
	maxBackoff         = 5 * time.Second
	maxPublishAttempts = 5
	finalFlushTimeout  = 5 * time.Second
)

// Publisher batches impact events off the request path and writes them with
// a BatchLoader. It implements EventSink.
type Publisher struct {
	loader        BatchLoader
	queue         chan domain.ImpactEvent
	batchSize     int
	flushInterval time.Duration
	clock         clockwork.Clock
	logger        *slog.Logger
	metrics       *observability.Metrics
	ready         atomic.Bool
}

// NewPublisher creates a Publisher that flushes every batchSize events or
// every flushInterval, whichever comes first. A nil clock uses real time.
func NewPublisher(l BatchLoader, batchSize int, flushInterval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	if batchSize < 1 {
		batchSize = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Publisher{
		loader:        l,
		queue:         make(chan domain.ImpactEvent, batchSize*4),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		clock:         clock,
		logger:        logger,
		metrics:       metrics,
	}
}

// Enqueue queues event for publishing. It never blocks: when the queue is
// full the event is dropped and false is returned.
func (p *Publisher) Enqueue(event domain.ImpactEvent) bool {
	select {
	case p.queue <- event:
		return true
	default:
		p.metrics.EventsDropped.Inc()
		return false
	}
}

// CheckReadiness returns nil while the publisher is running and its last
// write succeeded.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("impact publisher is not running or its last write failed")
	}
	return nil
}

// Run drains the queue until the context is cancelled, then flushes what is
// left with a bounded timeout.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("impact publisher started",
		"batch_size", p.batchSize,
		"flush_interval", p.flushInterval,
	)
	p.metrics.PublisherRunning.Set(1)
	defer p.metrics.PublisherRunning.Set(0)
	p.ready.Store(true)
	defer p.ready.Store(false)

	ticker := p.clock.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.ImpactEvent, 0, p.batchSize)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("impact publisher stopping", "reason", ctx.Err())
			p.finalFlush(ctx, batch)
			return nil
		case event := <-p.queue:
			batch = append(batch, event)
			if len(batch) >= p.batchSize {
				batch = p.flush(ctx, batch)
			}
		case <-ticker.Chan():
			batch = p.flush(ctx, batch)
		}
	}
}

// finalFlush writes the pending batch plus anything still queued.
func (p *Publisher) finalFlush(ctx context.Context, batch []domain.ImpactEvent) {
drain:
	for {
		select {
		case event := <-p.queue:
			batch = append(batch, event)
		default:
			break drain
		}
	}
	if len(batch) == 0 {
		return
	}
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalFlushTimeout)
	defer cancel()
	p.flush(flushCtx, batch)
}

// flush writes batch, retrying with exponential backoff. The batch is
// dropped once the attempts are exhausted or ctx ends. It returns a fresh
// empty batch.
func (p *Publisher) flush(ctx context.Context, batch []domain.ImpactEvent) []domain.ImpactEvent {
	if len(batch) == 0 {
		return batch
	}
	start := p.clock.Now()
	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.EventsPublished.Add(float64(len(batch)))
			p.metrics.PublishBatchSize.Observe(float64(len(batch)))
			p.ready.Store(true)
			p.logger.Debug("impact events published",
				"count", len(batch),
				"duration", p.clock.Since(start),
			)
			break
		}

		p.metrics.PublishErrors.Inc()
		p.ready.Store(false)
		p.logger.Error("publish batch failed",
			"error", err,
			"batch_size", len(batch),
			"attempt", attempt,
		)
		if attempt >= maxPublishAttempts || !sleepWithContext(ctx, p.clock, backoff) {
			p.metrics.EventsDropped.Add(float64(len(batch)))
			p.logger.Warn("dropping impact events", "count", len(batch))
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return make([]domain.ImpactEvent, 0, p.batchSize)
}

// sleepWithContext waits on the publisher's clock so tests can advance it.
func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
