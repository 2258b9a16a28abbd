// Package neo reads close approaches from the NASA NeoWs feed endpoint.
package neo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/upstream"
	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
)

// Service is the upstream label for the feed API.
const Service = "feed"

// Client implements pipeline.FeedSource using the NeoWs feed API.
type Client struct {
	apiKey  string
	baseURL string
	http    *upstream.Client
	logger  *slog.Logger
}

// NewClient creates a feed client. baseURL is the full feed endpoint,
// e.g. https://api.nasa.gov/neo/rest/v1/feed.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    upstream.New(Service, timeout, metrics),
		logger:  logger,
	}
}

// Feed returns the close approaches listed for a single YYYY-MM-DD date, in
// feed order. Entries without a name, a diameter or close-approach data are
// skipped.
func (c *Client) Feed(ctx context.Context, date string) ([]domain.AsteroidSummary, error) {
	params := url.Values{
		"start_date": {date},
		"end_date":   {date},
		"api_key":    {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp feedResponse
	if err := c.http.DoJSON(req, &resp); err != nil {
		return nil, err
	}

	objects := resp.NearEarthObjects[date]
	summaries := make([]domain.AsteroidSummary, 0, len(objects))
	for _, obj := range objects {
		s, ok := obj.summary()
		if !ok {
			c.logger.Debug("skipping incomplete feed object", "name", obj.Name, "date", date)
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// NeoWs feed response types.

type feedResponse struct {
	NearEarthObjects map[string][]nearEarthObject `json:"near_earth_objects"`
}

type nearEarthObject struct {
	Name              string            `json:"name"`
	EstimatedDiameter estimatedDiameter `json:"estimated_diameter"`
	Hazardous         bool              `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData []closeApproach   `json:"close_approach_data"`
}

type estimatedDiameter struct {
	Meters struct {
		Max *float64 `json:"estimated_diameter_max"`
	} `json:"meters"`
}

type closeApproach struct {
	Date             string `json:"close_approach_date"`
	RelativeVelocity struct {
		KilometersPerHour domain.Number `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Astronomical domain.Number `json:"astronomical"`
	} `json:"miss_distance"`
	Hazardous *bool `json:"is_potentially_hazardous_asteroid"` // rarely present; overrides the object flag
}

func (o nearEarthObject) summary() (domain.AsteroidSummary, bool) {
	if strings.TrimSpace(o.Name) == "" || o.EstimatedDiameter.Meters.Max == nil || len(o.CloseApproachData) == 0 {
		return domain.AsteroidSummary{}, false
	}
	ca := o.CloseApproachData[0]
	hazardous := o.Hazardous
	if ca.Hazardous != nil {
		hazardous = *ca.Hazardous
	}
	return domain.AsteroidSummary{
		Name:              o.Name,
		CloseApproachDate: ca.Date,
		DiameterMaxMeters: *o.EstimatedDiameter.Meters.Max,
		VelocityKMH:       ca.RelativeVelocity.KilometersPerHour.Value,
		MissDistanceAU:    ca.MissDistance.Astronomical.Value,
		Hazardous:         hazardous,
	}, true
}
