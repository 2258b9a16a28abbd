package main

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/impactsim"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/neo"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/population"
	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerAt(t, "")
}

func newTestServerAt(t *testing.T, fixedDate string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newMux(fixedDate))
	t.Cleanup(srv.Close)
	return srv
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMockFeed_DecodesThroughClient(t *testing.T) {
	srv := newTestServer(t)
	c := neo.NewClient(srv.URL+"/feed", "test", 5*time.Second, observability.NewMetricsForTesting(), discardLogger())

	got, err := c.Feed(context.Background(), "2024-03-05")
	require.NoError(t, err)

	require.Len(t, got, len(objects))
	assert.Equal(t, "(2024 AA1)", got[0].Name)
	assert.Equal(t, "2024-03-05", got[0].CloseApproachDate)
	assert.InDelta(t, 45210.8, got[0].VelocityKMH, 1e-9)
	assert.True(t, got[2].Hazardous)
}

func TestMockFeed_BadDate(t *testing.T) {
	srv := newTestServer(t)
	c := neo.NewClient(srv.URL+"/feed", "test", 5*time.Second, observability.NewMetricsForTesting(), discardLogger())

	_, err := c.Feed(context.Background(), "not-a-date")
	require.Error(t, err)
}

func TestMockFeed_FixedDate(t *testing.T) {
	srv := newTestServerAt(t, "2024-03-05")
	c := neo.NewClient(srv.URL+"/feed", "test", 5*time.Second, observability.NewMetricsForTesting(), discardLogger())

	got, err := c.Feed(context.Background(), "2024-03-06")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = c.Feed(context.Background(), "2024-03-05")
	require.NoError(t, err)
	assert.Len(t, got, len(objects))
}

func TestMockImpact_CraterThreshold(t *testing.T) {
	srv := newTestServer(t)
	c := impactsim.NewClient(srv.URL+"/impact", 5*time.Second, observability.NewMetricsForTesting(), discardLogger())

	small, err := c.Simulate(context.Background(), domain.NewImpactRequest(domain.ImpactQuery{Diameter: 10, VelocityKMH: 36000, Angle: 45}))
	require.NoError(t, err)
	assert.False(t, small.CraterFormed())
	assert.Equal(t, small.E0, small.EAir)

	large, err := c.Simulate(context.Background(), domain.NewImpactRequest(domain.ImpactQuery{Diameter: 200, VelocityKMH: 36000, Angle: 90}))
	require.NoError(t, err)
	assert.True(t, large.CraterFormed())
	assert.InDelta(t, 4000, large.CraterDiameter, 1e-6)

	ring, ok := large.Ring()
	require.True(t, ok)
	assert.NotEmpty(t, ring.EffectiveMMI)
}

func TestMockPopulation(t *testing.T) {
	srv := newTestServer(t)
	c := population.NewClient(srv.URL+"/population", 5*time.Second, observability.NewMetricsForTesting())

	res, err := c.Population(context.Background(), domain.PopulationQuery{Lat: 0, Lng: 10, Radii: 1000})
	require.NoError(t, err)

	pop, ok := res.First()
	require.True(t, ok)
	assert.InDelta(t, 62832, pop, 1)
}

func TestMMI(t *testing.T) {
	assert.Equal(t, "I", mmi(0))
	assert.Equal(t, "XII", mmi(1e12))
}
