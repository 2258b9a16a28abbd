package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
)

// Simulator runs an impact simulation.
type Simulator interface {
	Simulate(ctx context.Context, req domain.ImpactRequest) (domain.ImpactResult, error)
}

// PopulationSource estimates the population inside a radius.
type PopulationSource interface {
	Population(ctx context.Context, q domain.PopulationQuery) (domain.PopulationResult, error)
}

// EventSink accepts simulation records without blocking. Enqueue reports
// whether the event was accepted.
type EventSink interface {
	Enqueue(event domain.ImpactEvent) bool
}

// ImpactPipeline builds the map page: resolve the site, simulate, then look
// up the population inside the crater.
type ImpactPipeline struct {
	simulator  Simulator
	population PopulationSource
	geocoder   domain.Geocoder // nil when geocoding is disabled
	events     EventSink       // nil when publishing is disabled
	zoom       int
	logger     *slog.Logger
}

// NewImpactPipeline creates an ImpactPipeline. geocoder and events may be nil.
func NewImpactPipeline(sim Simulator, pop PopulationSource, geocoder domain.Geocoder, events EventSink, zoom int, logger *slog.Logger) *ImpactPipeline {
	return &ImpactPipeline{
		simulator:  sim,
		population: pop,
		geocoder:   geocoder,
		events:     events,
		zoom:       zoom,
		logger:     logger,
	}
}

// Simulate builds the map page for the query. The population lookup runs
// only after the simulation result is in and only when a crater formed.
func (p *ImpactPipeline) Simulate(ctx context.Context, v url.Values) domain.ImpactView {
	q, err := domain.ParseImpactQuery(v)
	if err != nil {
		p.logger.Info("invalid impact query", "error", err)
		return unavailableImpact(strings.TrimSpace(v.Get("name")), err)
	}

	site, err := domain.ResolveSite(ctx, q, p.geocoder, p.logger)
	if err != nil {
		p.logger.Info("impact site unresolved", "place", q.Place, "error", err)
		return unavailableImpact(q.Name, err)
	}

	req := domain.NewImpactRequest(q)
	result, err := p.simulator.Simulate(ctx, req)
	if err != nil {
		p.logger.Error("impact simulation failed",
			"name", q.Name,
			"diameter_m", req.L0,
			"error", err,
		)
		return unavailableImpact(q.Name, err)
	}

	view := BuildImpactView(q, site, req, result, p.zoom)

	var population *float64
	if result.CraterFormed() {
		if pop, ok := p.lookupPopulation(ctx, site, result); ok {
			population = &pop
			view.Population = domain.FormatNumber(pop)
		}
	}

	if p.events != nil {
		event := domain.NewImpactEvent(q.Name, site, req, result, population)
		if !p.events.Enqueue(event) {
			p.logger.Warn("impact event dropped, queue full", "id", event.ID)
		}
	}
	return view
}

func (p *ImpactPipeline) lookupPopulation(ctx context.Context, site domain.Site, result domain.ImpactResult) (float64, bool) {
	q := domain.NewPopulationQuery(site, result)
	resp, err := p.population.Population(ctx, q)
	if err != nil {
		p.logger.Warn("population lookup failed",
			"lat", q.Lat,
			"lng", q.Lng,
			"radii", q.Radii,
			"error", err,
		)
		return 0, false
	}
	pop, ok := resp.First()
	if !ok {
		p.logger.Warn("population lookup returned no estimate", "radii", q.Radii)
	}
	return pop, ok
}

// BuildImpactView formats a simulation result. The population slot is left
// unavailable; the caller fills it in after the lookup.
func BuildImpactView(q domain.ImpactQuery, site domain.Site, req domain.ImpactRequest, result domain.ImpactResult, zoom int) domain.ImpactView {
	view := domain.ImpactView{
		State:     domain.StateReady,
		Name:      q.Name,
		PlaceName: placeName(q, site),
		Diameter:  domain.FormatNumber(q.Diameter),
		Velocity:  domain.FormatNumber(req.V0),
		Angle:     domain.FormatNumber(q.Angle),
		Energy:    domain.FormatNumber(domain.Terajoules(result.E0)),
		TNT:       domain.FormatNumber(domain.Megatons(result.E0)),
		Hiroshima: domain.FormatNumber(domain.HiroshimaEquivalents(result.E0)),
		Map: domain.MapView{
			Lat:         site.Lat,
			Lon:         site.Lon,
			Zoom:        zoom,
			TileURL:     domain.TileURL,
			MaxZoom:     domain.TileMaxZoom,
			Attribution: domain.TileAttribution,
		},
		ShowPrompts: true,
	}

	if !result.CraterFormed() {
		return view
	}

	view.CraterFormed = true
	view.Population = domain.Unavailable
	view.Map.Marker = true
	view.Map.Circle = &domain.MapCircle{
		Radius:      result.CraterRadius(),
		Color:       domain.CraterColor,
		FillColor:   domain.CraterFillColor,
		FillOpacity: domain.CraterFillOpacity,
	}
	view.Ground = &domain.GroundEffects{
		EnergyGround:    domain.FormatNumber(domain.Terajoules(result.EGround)),
		TNTGround:       domain.FormatNumber(domain.Megatons(result.EGround)),
		HiroshimaGround: domain.FormatNumber(domain.HiroshimaEquivalents(result.EGround)),
		EnergyAir:       domain.FormatNumber(domain.Terajoules(result.EAir)),
		CraterDiameter:  domain.FormatNumber(result.CraterDiameter),
		CraterDepth:     domain.FormatNumber(result.CraterDepth),
	}
	if ring, ok := result.Ring(); ok {
		view.Ground.Ring = &domain.RingView{
			Thermal: scaled(ring.ThermalExposure, domain.JoulesPerMJ),
			MMI:     mmi(ring.EffectiveMMI),
			Wind:    scaled(ring.PeakWindVelocity, 1),
			Blast:   scaled(ring.SurfaceBlast, domain.PascalsPerMPa),
		}
	}
	return view
}

func unavailableImpact(name string, err error) domain.ImpactView {
	return domain.ImpactView{
		State:   domain.StateUnavailable,
		Message: domain.Unavailable,
		Err:     err,
		Name:    name,
	}
}

func placeName(q domain.ImpactQuery, site domain.Site) string {
	if site.FormattedAddress != "" {
		return site.FormattedAddress
	}
	return q.Place
}

func scaled(n domain.Number, divisor float64) string {
	if !n.Valid {
		return domain.Unavailable
	}
	return domain.FormatNumber(n.Value / divisor)
}

func mmi(t domain.Text) string {
	if t == "" {
		return domain.Unavailable
	}
	return string(t)
}
