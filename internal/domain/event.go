package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImpactEvent records one rendered simulation for downstream consumers.
type ImpactEvent struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Lat            float64       `json:"lat"`
	Lon            float64       `json:"lon"`
	PlaceName      string        `json:"place_name,omitempty"`
	Request        ImpactRequest `json:"request"`
	EnergyJoules   float64       `json:"energy_joules"`
	Megatons       float64       `json:"megatons"`
	CraterFormed   bool          `json:"crater_formed"`
	CraterDiameter float64       `json:"crater_diameter,omitempty"`
	CraterDepth    float64       `json:"crater_depth,omitempty"`
	Population     *float64      `json:"population,omitempty"`
	SimulatedAt    time.Time     `json:"simulated_at"`
}

// NewImpactEvent captures a simulation outcome. population is nil when no
// estimate was obtained.
func NewImpactEvent(name string, site Site, req ImpactRequest, result ImpactResult, population *float64) ImpactEvent {
	return ImpactEvent{
		ID:             uuid.NewString(),
		Name:           name,
		Lat:            site.Lat,
		Lon:            site.Lon,
		PlaceName:      site.PlaceName,
		Request:        req,
		EnergyJoules:   result.E0,
		Megatons:       Megatons(result.E0),
		CraterFormed:   result.CraterFormed(),
		CraterDiameter: result.CraterDiameter,
		CraterDepth:    result.CraterDepth,
		Population:     population,
		SimulatedAt:    clock.Now().UTC(),
	}
}
