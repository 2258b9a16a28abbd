package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ImpactPath is the map page route.
const ImpactPath = "/impact"

// ImpactQuery is the map page URL contract after validation.
type ImpactQuery struct {
	Name        string
	Lat         float64
	Lon         float64
	HasCoords   bool
	Place       string
	Diameter    float64 // meters
	VelocityKMH float64
	Angle       float64 // degrees from horizontal
}

// ParseImpactQuery validates the map page parameters. Coordinates are
// optional when a place name is given so the caller can geocode it.
func ParseImpactQuery(v url.Values) (ImpactQuery, error) {
	q := ImpactQuery{
		Name:  strings.TrimSpace(v.Get("name")),
		Place: strings.TrimSpace(v.Get("place")),
	}

	var err error
	if q.Diameter, err = positiveParam(v, "estimated_maximum_diameter"); err != nil {
		return ImpactQuery{}, err
	}
	if q.VelocityKMH, err = positiveParam(v, "relative_velocity"); err != nil {
		return ImpactQuery{}, err
	}
	if q.Angle, err = floatParam(v, "angle"); err != nil {
		return ImpactQuery{}, err
	}
	if q.Angle <= 0 || q.Angle > 90 {
		return ImpactQuery{}, &ParamError{Param: "angle", Reason: "must be in (0, 90] degrees"}
	}

	latRaw, lonRaw := v.Get("lat"), v.Get("lon")
	if latRaw == "" && lonRaw == "" {
		if q.Place == "" {
			return ImpactQuery{}, ErrMissingLocation
		}
		return q, nil
	}
	if q.Lat, err = floatParam(v, "lat"); err != nil {
		return ImpactQuery{}, err
	}
	if q.Lon, err = floatParam(v, "lon"); err != nil {
		return ImpactQuery{}, err
	}
	if q.Lat < -90 || q.Lat > 90 {
		return ImpactQuery{}, &ParamError{Param: "lat", Reason: "must be within [-90, 90]"}
	}
	if q.Lon < -180 || q.Lon > 180 {
		return ImpactQuery{}, &ParamError{Param: "lon", Reason: "must be within [-180, 180]"}
	}
	q.HasCoords = true
	return q, nil
}

// Values encodes q with the map page parameter names.
func (q ImpactQuery) Values() url.Values {
	v := url.Values{
		"name":                       {q.Name},
		"estimated_maximum_diameter": {strconv.FormatFloat(q.Diameter, 'f', -1, 64)},
		"relative_velocity":          {strconv.FormatFloat(q.VelocityKMH, 'f', -1, 64)},
		"angle":                      {strconv.FormatFloat(q.Angle, 'f', -1, 64)},
	}
	if q.HasCoords {
		v.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		v.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	}
	if q.Place != "" {
		v.Set("place", q.Place)
	}
	return v
}

func floatParam(v url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return 0, &ParamError{Param: name, Reason: "is required"}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ParamError{Param: name, Reason: "is not a number"}
	}
	return f, nil
}

func positiveParam(v url.Values, name string) (float64, error) {
	f, err := floatParam(v, name)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, &ParamError{Param: name, Reason: "must be positive"}
	}
	return f, nil
}
