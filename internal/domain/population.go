package domain

// PopulationQuery is sent to the population lookup service.
type PopulationQuery struct {
	Lat   float64
	Lng   float64
	Radii int // meters
}

// NewPopulationQuery builds the lookup for the crater around site.
func NewPopulationQuery(site Site, r ImpactResult) PopulationQuery {
	return PopulationQuery{Lat: site.Lat, Lng: site.Lon, Radii: PopulationRadius(r)}
}

// PopulationResult is the population lookup response.
type PopulationResult struct {
	Populations []Number `json:"populations"`
}

// First returns the first population estimate, if any.
func (p PopulationResult) First() (float64, bool) {
	if len(p.Populations) == 0 || !p.Populations[0].Valid {
		return 0, false
	}
	return p.Populations[0].Value, true
}
