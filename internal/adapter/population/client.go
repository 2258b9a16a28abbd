// Package population looks up how many people live within a radius of a
// point.
package population

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/upstream"
	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/lru"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
)

// Service is the upstream label for the population API.
const Service = "population"

// Client implements pipeline.PopulationSource.
type Client struct {
	baseURL string
	http    *upstream.Client
}

// NewClient creates a population client for baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		http:    upstream.New(Service, timeout, metrics),
	}
}

// Population returns the estimated population inside q.
func (c *Client) Population(ctx context.Context, q domain.PopulationQuery) (domain.PopulationResult, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(q.Lat, 'f', -1, 64)},
		"lng":   {strconv.FormatFloat(q.Lng, 'f', -1, 64)},
		"radii": {strconv.Itoa(q.Radii)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.PopulationResult{}, fmt.Errorf("create request: %w", err)
	}

	var result domain.PopulationResult
	if err := c.http.DoJSON(req, &result); err != nil {
		return domain.PopulationResult{}, err
	}
	return result, nil
}

// PopulationFetcher is the uncached population source.
type PopulationFetcher interface {
	Population(ctx context.Context, q domain.PopulationQuery) (domain.PopulationResult, error)
}

// CachedPopulation wraps a PopulationFetcher with an in-memory LRU cache.
// Population counts do not change between requests, so entries never expire.
type CachedPopulation struct {
	inner   PopulationFetcher
	cache   *lru.Cache[domain.PopulationResult]
	metrics *observability.Metrics
}

// NewCachedPopulation creates a cache decorator around a population source.
func NewCachedPopulation(inner PopulationFetcher, maxEntries int, metrics *observability.Metrics) *CachedPopulation {
	return &CachedPopulation{
		inner:   inner,
		cache:   lru.New[domain.PopulationResult](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedPopulation) Population(ctx context.Context, q domain.PopulationQuery) (domain.PopulationResult, error) {
	key := fmt.Sprintf("%.6f,%.6f|%d", q.Lat, q.Lng, q.Radii)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(Service, "hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues(Service, "miss").Inc()

	result, err := c.inner.Population(ctx, q)
	if err != nil {
		return result, err
	}
	if _, ok := result.First(); ok {
		c.cache.Put(key, result)
	}
	return result, nil
}
