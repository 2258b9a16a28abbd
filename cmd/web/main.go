package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/asteroid-impact-web/internal/adapter/http"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/impactsim"
	kafkaadapter "github.com/couchcryptid/asteroid-impact-web/internal/adapter/kafka"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/mapbox"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/neo"
	"github.com/couchcryptid/asteroid-impact-web/internal/adapter/population"
	"github.com/couchcryptid/asteroid-impact-web/internal/config"
	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	"github.com/couchcryptid/asteroid-impact-web/internal/pipeline"
	"github.com/couchcryptid/asteroid-impact-web/internal/render"
	"github.com/couchcryptid/asteroid-impact-web/internal/schedule"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

func main() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	renderer, err := render.New()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	feedClient := neo.NewClient(cfg.NEOBaseURL, cfg.NEOAPIKey, cfg.UpstreamTimeout, metrics, logger)
	feedCache := neo.NewCachedFeed(feedClient, cfg.FeedCacheSize, cfg.FeedCacheTTL, clockwork.NewRealClock(), metrics)
	feed := pipeline.NewFeedPipeline(feedCache, cfg.FeedCardLimit, logger)

	simulator := impactsim.NewClient(cfg.ImpactAPIURL, cfg.UpstreamTimeout, metrics, logger)
	pop := population.NewCachedPopulation(
		population.NewClient(cfg.PopulationAPIURL, cfg.UpstreamTimeout, metrics),
		cfg.PopulationCacheSize, metrics,
	)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Impact event publishing (enabled via KAFKA_BROKERS).
	var (
		events    pipeline.EventSink
		ready     = httpadapter.AlwaysReady
		writer    *kafkaadapter.Writer
		published = make(chan struct{})
	)
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher := pipeline.NewPublisher(writer, cfg.BatchSize, cfg.BatchFlushInterval, clockwork.NewRealClock(), logger, metrics)
		events = publisher
		ready = publisher.CheckReadiness
		go func() {
			defer close(published)
			if err := publisher.Run(ctx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
		logger.Info("impact event publishing enabled", "topic", cfg.KafkaImpactTopic, "brokers", cfg.KafkaBrokers)
	} else {
		close(published)
		logger.Info("impact event publishing disabled")
	}

	impact := pipeline.NewImpactPipeline(simulator, pop, geocoder, events, cfg.MapZoom, logger)

	var prefetcher *schedule.Prefetcher
	if cfg.FeedRefreshSpec != "" {
		prefetcher, err = schedule.NewPrefetcher(cfg.FeedRefreshSpec, feedCache, cfg.UpstreamTimeout, logger, metrics)
		if err != nil {
			logger.Error("failed to schedule feed prefetch", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := prefetcher.RunOnce(ctx); err != nil {
				logger.Warn("initial feed prefetch failed", "error", err)
			}
		}()
		prefetcher.Start()
	}

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:             cfg.HTTPAddr,
		Feed:             feed,
		Impact:           impact,
		Renderer:         renderer,
		Static:           render.Static(),
		Ready:            ready,
		GeocodingEnabled: geocoder != nil,
		RateLimit:        rate.Limit(cfg.RateLimitRPS),
		RateBurst:        cfg.RateLimitBurst,
	}, logger, metrics)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if prefetcher != nil {
		prefetcher.Stop(shutdownCtx)
	}

	// The publisher drains its queue once ctx is cancelled.
	select {
	case <-published:
	case <-shutdownCtx.Done():
		logger.Warn("publisher did not drain before shutdown deadline")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
