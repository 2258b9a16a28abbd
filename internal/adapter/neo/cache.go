package neo

import (
	"context"
	"slices"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/lru"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	"github.com/jonboulle/clockwork"
)

// FeedFetcher is the uncached feed source.
type FeedFetcher interface {
	Feed(ctx context.Context, date string) ([]domain.AsteroidSummary, error)
}

// CachedFeed wraps a FeedFetcher with a per-date LRU cache with expiry.
type CachedFeed struct {
	inner   FeedFetcher
	cache   *lru.Cache[[]domain.AsteroidSummary]
	metrics *observability.Metrics
}

// NewCachedFeed creates a cache decorator around a feed source.
func NewCachedFeed(inner FeedFetcher, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedFeed {
	return &CachedFeed{
		inner:   inner,
		cache:   lru.NewWithTTL[[]domain.AsteroidSummary](maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedFeed) Feed(ctx context.Context, date string) ([]domain.AsteroidSummary, error) {
	if cached, ok := c.cache.Get(date); ok {
		c.metrics.CacheLookups.WithLabelValues(Service, "hit").Inc()
		return slices.Clone(cached), nil
	}
	c.metrics.CacheLookups.WithLabelValues(Service, "miss").Inc()
	return c.fetch(ctx, date)
}

// Refresh re-reads date from the source and replaces the cached entry.
func (c *CachedFeed) Refresh(ctx context.Context, date string) error {
	_, err := c.fetch(ctx, date)
	return err
}

func (c *CachedFeed) fetch(ctx context.Context, date string) ([]domain.AsteroidSummary, error) {
	result, err := c.inner.Feed(ctx, date)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty days so a feed that has not been published yet is retried.
	if len(result) > 0 {
		c.cache.Put(date, slices.Clone(result))
	}
	return result, nil
}
