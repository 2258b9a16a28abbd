// Package upstream performs JSON requests against the external services the
// pages are built from, recording latency and outcome per service.
package upstream

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	json "github.com/goccy/go-json"
)

// Request outcomes recorded on the upstream_requests_total metric.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeStatus  = "status"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// Client sends requests to one upstream service.
type Client struct {
	service    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// New creates a Client for service with a per-request timeout.
func New(service string, timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		service:    service,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

// Service returns the service label used in errors and metrics.
func (c *Client) Service() string {
	return c.service
}

// DoJSON sends req and decodes a 2xx JSON response into out. Non-2xx
// responses return a *domain.StatusError.
func (c *Client) DoJSON(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(c.service).Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe(OutcomeError)
		return fmt.Errorf("%s request: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.observe(OutcomeStatus)
		return &domain.StatusError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.observe(OutcomeError)
		return fmt.Errorf("decode %s response: %w", c.service, err)
	}
	c.observe(OutcomeSuccess)
	return nil
}

func (c *Client) observe(outcome string) {
	c.metrics.UpstreamRequests.WithLabelValues(c.service, outcome).Inc()
}
