// Package domain models near-Earth-object (NEO) close approaches and the
// impact scenarios rendered for them.
//
// # Data Sources
//
// Asteroid summaries come from the NASA NeoWs feed endpoint
// (https://api.nasa.gov/neo/rest/v1/feed). The feed is queried for a single
// day: start_date and end_date are both today's local date, and the response
// groups objects under near_earth_objects keyed by that same YYYY-MM-DD string.
//
// Impact physics is delegated to an external simulation service. This package
// only builds its request and interprets the response fields it displays.
// Population estimates come from a separate lookup service keyed by
// coordinates and a radius in meters.
//
// # Units
//
//	Diameter:        meters (estimated_diameter.meters.estimated_diameter_max)
//	Feed velocity:   km/h, delivered as a numeric string
//	Impact velocity: m/s (v0 = km/h ÷ 3.6)
//	Miss distance:   astronomical units, delivered as a numeric string
//	Energy:          joules; displayed as TJ (÷ 1e12), megatons TNT (÷ 4.184e15)
//	                 and Hiroshima equivalents (megatons ÷ 15)
//	Thermal:         J/m²; displayed as MJ/m²
//	Overpressure:    Pa; displayed as MPa
//
// # Wire Quirks
//
// The impact service spells the crater diameter field "crater_diamater". The
// spelling is preserved on [ImpactResult] for wire compatibility. Ring effect
// values arrive as either JSON numbers or numeric strings, which is why they
// decode into [Number] and [Text].
//
// The crater branch is selected by a positive crater diameter. A zero or
// missing value means the body broke up in the atmosphere (airburst) and no
// ground effects are rendered.
package domain
