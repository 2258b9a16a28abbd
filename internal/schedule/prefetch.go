// Package schedule keeps the feed cache warm on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	"github.com/robfig/cron/v3"
)

// FeedRefresher replaces the cached feed for a date.
type FeedRefresher interface {
	Refresh(ctx context.Context, date string) error
}

// Prefetcher refreshes today's feed on a cron schedule.
type Prefetcher struct {
	cron      *cron.Cron
	refresher FeedRefresher
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewPrefetcher schedules refreshes with a standard cron spec or descriptor
// such as "@hourly". Each run is bounded by timeout.
func NewPrefetcher(spec string, r FeedRefresher, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) (*Prefetcher, error) {
	p := &Prefetcher{
		cron:      cron.New(),
		refresher: r,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics,
	}
	if _, err := p.cron.AddFunc(spec, p.run); err != nil {
		return nil, fmt.Errorf("schedule feed prefetch %q: %w", spec, err)
	}
	return p, nil
}

// Start runs the scheduler in its own goroutine.
func (p *Prefetcher) Start() {
	p.logger.Info("feed prefetch scheduled", "entries", len(p.cron.Entries()))
	p.cron.Start()
}

// Stop halts the scheduler and waits for a running refresh to finish or for
// ctx to end.
func (p *Prefetcher) Stop(ctx context.Context) {
	done := p.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		p.logger.Warn("feed prefetch still running at shutdown")
	}
}

// RunOnce refreshes today's feed.
func (p *Prefetcher) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	date := domain.Today()
	if err := p.refresher.Refresh(ctx, date); err != nil {
		p.metrics.FeedPrefetches.WithLabelValues("error").Inc()
		return fmt.Errorf("prefetch feed for %s: %w", date, err)
	}
	p.metrics.FeedPrefetches.WithLabelValues("success").Inc()
	p.logger.Debug("feed prefetched", "date", date)
	return nil
}

func (p *Prefetcher) run() {
	if err := p.RunOnce(context.Background()); err != nil {
		p.logger.Warn("feed prefetch failed", "error", err)
	}
}
