package domain

import "math"

const (
	// ImpactorDensity is the assumed asteroid density in kg/m³ (stony body).
	ImpactorDensity = 2000.0
	// TargetDensity is the target density in kg/m³ (mean density of Earth).
	TargetDensity = 5515.3

	// FirstRing is the r_effects key of the innermost distance ring.
	FirstRing = "1"
)

const (
	JoulesPerTerajoule = 1e12
	JoulesPerMegaton   = 4.184e15
	HiroshimaMegatons  = 15.0
	PascalsPerMPa      = 1e6
	JoulesPerMJ        = 1e6
)

// ImpactRequest is the body sent to the impact simulation service.
type ImpactRequest struct {
	L0 float64 `json:"L0"` // diameter, m
	Ui float64 `json:"Ui"` // impactor density, kg/m³
	V0 float64 `json:"v0"` // entry velocity, m/s
	T  float64 `json:"T"`  // impact angle, degrees
	Uj float64 `json:"Uj"` // target density, kg/m³
}

// NewImpactRequest builds the simulation request for q.
func NewImpactRequest(q ImpactQuery) ImpactRequest {
	return ImpactRequest{
		L0: q.Diameter,
		Ui: ImpactorDensity,
		V0: KMHToMS(q.VelocityKMH),
		T:  q.Angle,
		Uj: TargetDensity,
	}
}

// ImpactResult holds the simulation response fields this service displays.
type ImpactResult struct {
	E0             float64                `json:"E0"`
	EGround        float64                `json:"E_ground"`
	EAir           float64                `json:"E_air"`
	CraterDiameter float64                `json:"crater_diamater"`
	CraterDepth    float64                `json:"crater_depth"`
	RingEffects    map[string]RingEffects `json:"r_effects"`
}

// RingEffects are the effects estimated for one distance ring.
type RingEffects struct {
	ThermalExposure  Number `json:"thermal_exposure"` // J/m²
	EffectiveMMI     Text   `json:"effective_mmi"`
	PeakWindVelocity Number `json:"peak_wind_vel"` // m/s
	SurfaceBlast     Number `json:"surface_blast"` // Pa
}

// CraterFormed reports whether the body reached the ground.
func (r ImpactResult) CraterFormed() bool {
	return r.CraterDiameter > 0
}

// CraterRadius returns the crater radius in meters.
func (r ImpactResult) CraterRadius() float64 {
	return r.CraterDiameter / 2
}

// Ring returns the effects for the innermost ring, if present.
func (r ImpactResult) Ring() (RingEffects, bool) {
	e, ok := r.RingEffects[FirstRing]
	return e, ok
}

// KMHToMS converts km/h to m/s.
func KMHToMS(kmh float64) float64 {
	return kmh / 3.6
}

// Terajoules converts joules to terajoules.
func Terajoules(j float64) float64 {
	return j / JoulesPerTerajoule
}

// Megatons converts joules to megatons of TNT.
func Megatons(j float64) float64 {
	return j / JoulesPerMegaton
}

// HiroshimaEquivalents expresses joules as multiples of HiroshimaMegatons.
func HiroshimaEquivalents(j float64) float64 {
	return Megatons(j) / HiroshimaMegatons
}

// PopulationRadius is the radius sent to the population service: the crater
// radius rounded to whole meters.
func PopulationRadius(r ImpactResult) int {
	return int(math.Round(r.CraterRadius()))
}
