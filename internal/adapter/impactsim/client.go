// Package impactsim calls the impact simulation service.
package impactsim

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/upstream"
	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	json "github.com/goccy/go-json"
)

// Service is the upstream label for the simulation API.
const Service = "impact"

// Client implements pipeline.Simulator.
type Client struct {
	url    string
	http   *upstream.Client
	logger *slog.Logger
}

// NewClient creates a simulation client posting to url.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		http:   upstream.New(Service, timeout, metrics),
		logger: logger,
	}
}

// Simulate posts req and returns the simulated effects.
func (c *Client) Simulate(ctx context.Context, req domain.ImpactRequest) (domain.ImpactResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.ImpactResult{}, fmt.Errorf("marshal impact request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.ImpactResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp simulationResponse
	if err := c.http.DoJSON(httpReq, &resp); err != nil {
		return domain.ImpactResult{}, err
	}
	result, err := resp.result()
	if err != nil {
		return domain.ImpactResult{}, err
	}
	c.logger.Debug("impact simulated",
		"diameter_m", req.L0,
		"velocity_ms", req.V0,
		"angle_deg", req.T,
		"crater_m", result.CraterDiameter,
	)
	return result, nil
}

// simulationResponse mirrors domain.ImpactResult with the fields every
// simulation carries held as pointers, so an error body or an empty object
// is told apart from a real zero-energy airburst.
type simulationResponse struct {
	E0             *float64                      `json:"E0"`
	EGround        float64                       `json:"E_ground"`
	EAir           float64                       `json:"E_air"`
	CraterDiameter *float64                      `json:"crater_diamater"`
	CraterDepth    float64                       `json:"crater_depth"`
	RingEffects    map[string]domain.RingEffects `json:"r_effects"`
}

func (r simulationResponse) result() (domain.ImpactResult, error) {
	var missing []string
	if r.E0 == nil {
		missing = append(missing, "E0")
	}
	if r.CraterDiameter == nil {
		missing = append(missing, "crater_diamater")
	}
	if r.RingEffects == nil {
		missing = append(missing, "r_effects")
	}
	if len(missing) > 0 {
		return domain.ImpactResult{}, &domain.MalformedResponseError{Service: Service, Missing: missing}
	}
	return domain.ImpactResult{
		E0:             *r.E0,
		EGround:        r.EGround,
		EAir:           r.EAir,
		CraterDiameter: *r.CraterDiameter,
		CraterDepth:    r.CraterDepth,
		RingEffects:    r.RingEffects,
	}, nil
}
