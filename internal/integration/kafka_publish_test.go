//go:build integration

package integration_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/impactsim"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/kafka"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/population"
	"github.com/couchcryptid/asteroid-impact-web/internal/config"
	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	"github.com/couchcryptid/asteroid-impact-web/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImpactTopic = "test-impacts"

func testConfig(broker string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaImpactTopic:   testImpactTopic,
		BatchSize:          10,
		BatchFlushInterval: 100 * time.Millisecond,
	}
}

// TestKafkaWriter verifies that a batch written by kafka.Writer round-trips
// with its key and headers intact.
func TestKafkaWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testImpactTopic)

	writer := kafka.NewWriter(testConfig(broker), discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	pop := 1234.0
	event := domain.ImpactEvent{
		ID:             "evt-1",
		Name:           "(2019 OK)",
		Lat:            40.7128,
		Lon:            -74.006,
		Request:        domain.ImpactRequest{L0: 130, Ui: domain.ImpactorDensity, V0: 24600, T: 45, Uj: domain.TargetDensity},
		EnergyJoules:   4.184e15,
		Megatons:       1,
		CraterFormed:   true,
		CraterDiameter: 1800,
		CraterDepth:    360,
		Population:     &pop,
		SimulatedAt:    time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, writer.LoadBatch(ctx, []domain.ImpactEvent{event}))

	got := readEvent(ctx, t, newConsumer(t, broker, testImpactTopic))
	assert.Equal(t, "evt-1", got.Key)
	assert.Equal(t, "true", got.Headers["crater_formed"])
	assert.Equal(t, "2024-03-05T09:30:00Z", got.Headers["simulated_at"])
	assert.Equal(t, event, got.Event)
}

// TestImpactPublishingEndToEnd drives the impact pipeline against fake
// simulation and population APIs and checks that each rendered simulation
// lands on the topic through the background publisher.
func TestImpactPublishingEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testImpactTopic)

	upstream := http.NewServeMux()
	upstream.HandleFunc("POST /impact", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"E0": 4.184e15, "E_ground": 3e15, "E_air": 1.184e15,
			"crater_diamater": 1000, "crater_depth": 200,
			"r_effects": {"1": {"thermal_exposure": 1e6, "effective_mmi": 7, "peak_wind_vel": 50, "surface_blast": 5e5}}
		}`))
	})
	upstream.HandleFunc("GET /population", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"populations": [52000]}`))
	})
	api := httptest.NewServer(upstream)
	t.Cleanup(api.Close)

	cfg := testConfig(broker)
	metrics := observability.NewMetricsForTesting()

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	publisher := pipeline.NewPublisher(writer, cfg.BatchSize, cfg.BatchFlushInterval, clockwork.NewRealClock(), discardLogger(), metrics)
	runCtx, stopPublisher := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- publisher.Run(runCtx) }()

	impact := pipeline.NewImpactPipeline(
		impactsim.NewClient(api.URL+"/impact", 5*time.Second, metrics, discardLogger()),
		population.NewClient(api.URL+"/population", 5*time.Second, metrics),
		nil,
		publisher,
		domain.DefaultMapZoom,
		discardLogger(),
	)

	queries := []domain.ImpactQuery{
		{Name: "(2019 OK)", Lat: 40.7128, Lon: -74.006, HasCoords: true, Diameter: 130, VelocityKMH: 88560, Angle: 45},
		{Name: "99942 Apophis (2004 MN4)", Lat: 35.0275, Lon: -111.0225, HasCoords: true, Diameter: 370, VelocityKMH: 26640, Angle: 60},
	}
	for _, q := range queries {
		view := impact.Simulate(ctx, q.Values())
		require.Equal(t, domain.StateReady, view.State, "impact view for %s", q.Name)
	}

	consumer := newConsumer(t, broker, testImpactTopic)
	received := make(map[string]publishedEvent, len(queries))
	for len(received) < len(queries) {
		pe := readEvent(ctx, t, consumer)
		received[pe.Event.Name] = pe
	}

	stopPublisher()
	require.NoError(t, <-errCh)

	for _, q := range queries {
		pe, ok := received[q.Name]
		require.True(t, ok, "missing event for %s", q.Name)
		assert.Equal(t, pe.Event.ID, pe.Key)
		assert.Equal(t, "true", pe.Headers["crater_formed"])
		_, err := time.Parse(time.RFC3339, pe.Headers["simulated_at"])
		require.NoError(t, err)

		assert.Equal(t, q.Lat, pe.Event.Lat)
		assert.Equal(t, q.Lon, pe.Event.Lon)
		assert.Equal(t, 1.0, pe.Event.Megatons)
		require.NotNil(t, pe.Event.Population)
		assert.Equal(t, 52000.0, *pe.Event.Population)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EventsPublished))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.EventsDropped))
}
