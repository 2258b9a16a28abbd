package pipeline

import (
	"net/url"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
)

// BuildDetailView renders the selected asteroid from the detail page query.
// Values are shown as received; only the image scale is derived.
func BuildDetailView(v url.Values, geocodingEnabled bool) domain.DetailView {
	q, err := domain.ParseDetailQuery(v)
	if err != nil {
		return domain.DetailView{
			State:   domain.StateUnavailable,
			Message: domain.Unavailable,
			Err:     err,
		}
	}

	view := domain.DetailView{
		State:             domain.StateReady,
		Name:              q.Name,
		CloseApproachDate: q.CloseApproachDate,
		Diameter:          q.Diameter,
		Velocity:          q.Velocity,
		Distance:          q.Distance,
		Hazard:            domain.HazardLabel(q.Hazardous),
		ImpactPath:        domain.ImpactPath,
		ImpactDiameter:    q.Diameter,
		ImpactVelocity:    q.Velocity,
		GeocodingEnabled:  geocodingEnabled,
	}
	if d, ok := q.DiameterMeters(); ok {
		view.ImageStyle = domain.ImageStyle(d)
	}
	return view
}
