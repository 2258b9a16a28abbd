package domain

import "html/template"

// ViewState is the outcome of building a page.
type ViewState string

const (
	StateReady       ViewState = "ready"
	StateEmpty       ViewState = "empty"
	StateUnavailable ViewState = "unavailable"
)

// Card is one rendered feed entry.
type Card struct {
	Index             int
	Name              string
	CloseApproachDate string
	Diameter          string
	Velocity          string
	Distance          string
	Hazard            string
	ImageStyle        template.CSS
	DetailURL         string
}

// FeedView is the feed page model.
type FeedView struct {
	State   ViewState
	Date    string
	Cards   []Card
	Message string
	Err     error
}

// DetailView is the selected-asteroid page model.
type DetailView struct {
	State             ViewState
	Message           string
	Err               error
	Name              string
	CloseApproachDate string
	Diameter          string
	Velocity          string
	Distance          string
	Hazard            string
	ImageStyle        template.CSS

	// ImpactPath and the Impact* fields feed the impact site form.
	ImpactPath       string
	ImpactDiameter   string
	ImpactVelocity   string
	GeocodingEnabled bool
}

// ImpactView is the map page model.
type ImpactView struct {
	State   ViewState
	Message string
	Err     error

	Name      string
	PlaceName string
	Diameter  string
	Velocity  string
	Angle     string
	Energy    string
	TNT       string
	Hiroshima string

	CraterFormed bool
	Ground       *GroundEffects
	Population   string

	Map MapView

	// ShowPrompts reveals the chat and continue affordances once the
	// primary simulation has rendered.
	ShowPrompts bool
}

// GroundEffects is rendered only in the crater branch.
type GroundEffects struct {
	EnergyGround    string
	TNTGround       string
	HiroshimaGround string
	EnergyAir       string
	CraterDiameter  string
	CraterDepth     string
	Ring            *RingView
}

// RingView holds the formatted innermost ring effects.
type RingView struct {
	Thermal string
	MMI     string
	Wind    string
	Blast   string
}

// MapView configures the browser map widget.
type MapView struct {
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	Zoom        int        `json:"zoom"`
	TileURL     string     `json:"tileUrl"`
	MaxZoom     int        `json:"maxZoom"`
	Attribution string     `json:"attribution"`
	Marker      bool       `json:"marker"`
	Circle      *MapCircle `json:"circle,omitempty"`
}

// MapCircle is the crater overlay.
type MapCircle struct {
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
}

// Map widget defaults.
const (
	DefaultMapZoom    = 13
	TileURL           = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileMaxZoom       = 19
	TileAttribution   = `&copy; <a href="http://www.openstreetmap.org/copyright">OpenStreetMap</a>`
	CraterColor       = "red"
	CraterFillColor   = "#f03"
	CraterFillOpacity = 0.5
)

// ImageStyle returns the inline style scaling the placeholder image for a
// diameter in meters. The value is built from a formatted float only.
func ImageStyle(diameterMeters float64) template.CSS {
	s := formatScale(ImageScale(diameterMeters))
	return template.CSS("scale: " + s + " " + s) //nolint:gosec // numeric content only
}
