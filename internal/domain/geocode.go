package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// Geo source values recorded on a Site.
const (
	GeoSourceQuery   = "query"
	GeoSourceForward = "forward"
	GeoSourceReverse = "reverse"
	GeoSourceFailed  = "failed"
)

// Site is the resolved impact location.
type Site struct {
	Lat              float64
	Lon              float64
	PlaceName        string
	FormattedAddress string
	Source           string
}

// ResolveSite turns the query location into coordinates. Coordinates from
// the query win; a reverse lookup only decorates them with a place name and
// its failure is not fatal. Without coordinates the place name must forward
// geocode, otherwise the site is unresolved.
func ResolveSite(ctx context.Context, q ImpactQuery, geocoder Geocoder, logger *slog.Logger) (Site, error) {
	if q.HasCoords {
		site := Site{Lat: q.Lat, Lon: q.Lon, Source: GeoSourceQuery}
		if geocoder == nil {
			return site, nil
		}
		result, err := geocoder.ReverseGeocode(ctx, q.Lat, q.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"lat", q.Lat,
				"lon", q.Lon,
				"error", err,
			)
			site.Source = GeoSourceFailed
			return site, nil
		}
		if result.FormattedAddress != "" {
			site.PlaceName = result.PlaceName
			site.FormattedAddress = result.FormattedAddress
			site.Source = GeoSourceReverse
		}
		return site, nil
	}

	if q.Place == "" {
		return Site{}, ErrMissingLocation
	}
	if geocoder == nil {
		return Site{}, fmt.Errorf("%w: geocoding is disabled", ErrMissingLocation)
	}

	result, err := geocoder.ForwardGeocode(ctx, q.Place)
	if err != nil {
		logger.Warn("forward geocoding failed", "place", q.Place, "error", err)
		return Site{}, fmt.Errorf("%w: %q", ErrLocationUnresolved, q.Place)
	}
	if result.Lat == 0 && result.Lon == 0 {
		return Site{}, fmt.Errorf("%w: %q", ErrLocationUnresolved, q.Place)
	}
	return Site{
		Lat:              result.Lat,
		Lon:              result.Lon,
		PlaceName:        result.PlaceName,
		FormattedAddress: result.FormattedAddress,
		Source:           GeoSourceForward,
	}, nil
}
