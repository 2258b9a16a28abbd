package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	reverseResult GeocodingResult
	reverseErr    error
	forwardCalls  int
	reverseCalls  int
	lastQuery     string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, query string) (GeocodingResult, error) {
	m.forwardCalls++
	m.lastQuery = query
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.reverseCalls++
	return m.reverseResult, m.reverseErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestResolveSite_NilGeocoder(t *testing.T) {
	q := ImpactQuery{Lat: 10, Lon: 20, HasCoords: true}

	site, err := ResolveSite(context.Background(), q, nil, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 10.0, site.Lat)
	assert.Equal(t, 20.0, site.Lon)
	assert.Equal(t, GeoSourceQuery, site.Source)
	assert.Empty(t, site.PlaceName)
}

func TestResolveSite_ForwardGeocode(t *testing.T) {
	geo := &mockGeocoder{
		forwardResult: GeocodingResult{
			Lat:              30.2672,
			Lon:              -97.7431,
			FormattedAddress: "Austin, Texas, United States",
			PlaceName:        "Austin",
			Confidence:       0.95,
		},
	}
	q := ImpactQuery{Place: "Austin, TX"} // no coordinates → forward geocode

	site, err := ResolveSite(context.Background(), q, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 30.2672, site.Lat)
	assert.Equal(t, -97.7431, site.Lon)
	assert.Equal(t, "Austin", site.PlaceName)
	assert.Equal(t, GeoSourceForward, site.Source)
	assert.Equal(t, "Austin, TX", geo.lastQuery)
	assert.Equal(t, 1, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}

func TestResolveSite_ReverseGeocode(t *testing.T) {
	geo := &mockGeocoder{
		reverseResult: GeocodingResult{
			FormattedAddress: "Austin, Travis County, Texas",
			PlaceName:        "Austin",
			Confidence:       0.98,
		},
	}
	q := ImpactQuery{Lat: 30.2672, Lon: -97.7431, HasCoords: true}

	site, err := ResolveSite(context.Background(), q, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, "Austin, Travis County, Texas", site.FormattedAddress)
	assert.Equal(t, "Austin", site.PlaceName)
	assert.Equal(t, GeoSourceReverse, site.Source)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 1, geo.reverseCalls)
}

func TestResolveSite_ReverseError_KeepsCoordinates(t *testing.T) {
	geo := &mockGeocoder{reverseErr: errors.New("rate limited")}
	q := ImpactQuery{Lat: 30.2672, Lon: -97.7431, HasCoords: true}

	site, err := ResolveSite(context.Background(), q, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, GeoSourceFailed, site.Source)
	assert.Equal(t, 30.2672, site.Lat)
}

func TestResolveSite_ForwardError(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("API timeout")}
	q := ImpactQuery{Place: "Austin"}

	_, err := ResolveSite(context.Background(), q, geo, discardLogger())

	require.ErrorIs(t, err, ErrLocationUnresolved)
	assert.True(t, IsInputError(err))
}

func TestResolveSite_ForwardEmptyResult(t *testing.T) {
	geo := &mockGeocoder{} // no coordinates returned
	q := ImpactQuery{Place: "Nowhere"}

	_, err := ResolveSite(context.Background(), q, geo, discardLogger())

	require.ErrorIs(t, err, ErrLocationUnresolved)
}

func TestResolveSite_CoordsPreferredOverPlace(t *testing.T) {
	geo := &mockGeocoder{
		reverseResult: GeocodingResult{FormattedAddress: "Austin, Texas", PlaceName: "Austin"},
	}
	q := ImpactQuery{Lat: 30.2672, Lon: -97.7431, HasCoords: true, Place: "Dallas"}

	site, err := ResolveSite(context.Background(), q, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, GeoSourceReverse, site.Source)
	assert.Equal(t, 0, geo.forwardCalls)
}

func TestResolveSite_NoLocation(t *testing.T) {
	_, err := ResolveSite(context.Background(), ImpactQuery{}, &mockGeocoder{}, discardLogger())
	require.ErrorIs(t, err, ErrMissingLocation)
}

func TestResolveSite_PlaceWithoutGeocoder(t *testing.T) {
	_, err := ResolveSite(context.Background(), ImpactQuery{Place: "Austin"}, nil, discardLogger())
	require.ErrorIs(t, err, ErrMissingLocation)
}
