package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// ImageScaleDivisor maps an estimated diameter in meters to the CSS scale of
// the placeholder image: a 500 m body renders at natural size.
const ImageScaleDivisor = 500.0

// DetailPath is the detail page route; DetailAnchor scrolls to its content.
const (
	DetailPath   = "/asteroid"
	DetailAnchor = "sel-wrapper"
)

// AsteroidSummary is one close approach from the feed, reduced to the fields
// the pages display.
type AsteroidSummary struct {
	Name              string
	CloseApproachDate string
	DiameterMaxMeters float64
	VelocityKMH       float64
	MissDistanceAU    float64
	Hazardous         bool
}

// ImageScale returns the placeholder image scale for a diameter in meters.
func ImageScale(diameterMeters float64) float64 {
	return diameterMeters / ImageScaleDivisor
}

// HazardLabel renders the potentially-hazardous flag.
func HazardLabel(hazardous bool) string {
	if hazardous {
		return "Yes"
	}
	return "No"
}

// DetailQuery is the detail page URL contract. Numeric fields hold the
// already-formatted strings produced by the feed page.
type DetailQuery struct {
	ID                int
	FeedDate          string
	Name              string
	CloseApproachDate string
	Diameter          string
	Velocity          string
	Distance          string
	Hazardous         bool
}

// NewDetailQuery builds the detail link parameters for the i-th feed entry.
func NewDetailQuery(i int, feedDate string, a AsteroidSummary) DetailQuery {
	return DetailQuery{
		ID:                i,
		FeedDate:          feedDate,
		Name:              a.Name,
		CloseApproachDate: a.CloseApproachDate,
		Diameter:          FormatFixed(a.DiameterMaxMeters),
		Velocity:          FormatFixed(a.VelocityKMH),
		Distance:          FormatFixed(a.MissDistanceAU),
		Hazardous:         a.Hazardous,
	}
}

// Values encodes q as query parameters.
func (q DetailQuery) Values() url.Values {
	return url.Values{
		"id":                         {strconv.Itoa(q.ID)},
		"date":                       {q.FeedDate},
		"name":                       {q.Name},
		"close_approach_date":        {q.CloseApproachDate},
		"estimated_maximum_diameter": {q.Diameter},
		"relative_velocity":          {q.Velocity},
		"distance_from_earth":        {q.Distance},
		"hazardous":                  {strconv.FormatBool(q.Hazardous)},
	}
}

// URL returns the detail page link for q.
func (q DetailQuery) URL() string {
	u := url.URL{Path: DetailPath, RawQuery: q.Values().Encode(), Fragment: DetailAnchor}
	return u.String()
}

// ParseDetailQuery reads the detail page parameters. Only name is required;
// a missing or unparseable hazardous flag reads as false.
func ParseDetailQuery(v url.Values) (DetailQuery, error) {
	q := DetailQuery{
		FeedDate:          v.Get("date"),
		Name:              strings.TrimSpace(v.Get("name")),
		CloseApproachDate: v.Get("close_approach_date"),
		Diameter:          v.Get("estimated_maximum_diameter"),
		Velocity:          v.Get("relative_velocity"),
		Distance:          v.Get("distance_from_earth"),
	}
	if q.Name == "" {
		return DetailQuery{}, &ParamError{Param: "name", Reason: "is required"}
	}
	if id, err := strconv.Atoi(v.Get("id")); err == nil {
		q.ID = id
	}
	if h, err := strconv.ParseBool(v.Get("hazardous")); err == nil {
		q.Hazardous = h
	}
	return q, nil
}

// DiameterMeters parses the formatted diameter back to meters.
func (q DetailQuery) DiameterMeters() (float64, bool) {
	v, err := strconv.ParseFloat(q.Diameter, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
