package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream APIs.
	NEOBaseURL          string
	NEOAPIKey           string
	ImpactAPIURL        string
	PopulationAPIURL    string
	UpstreamTimeout     time.Duration
	FeedCardLimit       int
	FeedCacheSize       int
	FeedCacheTTL        time.Duration
	FeedRefreshSpec     string
	PopulationCacheSize int

	MapZoom int

	// Per-client rate limit on the impact page.
	RateLimitRPS   float64
	RateLimitBurst int

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Impact event publishing. Disabled when KafkaBrokers is empty.
	KafkaBrokers       []string
	KafkaImpactTopic   string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// KafkaEnabled reports whether impact events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parsePositiveDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	feedCacheTTL, err := parsePositiveDuration("FEED_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}
	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cardLimit, err := parsePositiveInt("FEED_CARD_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	mapZoom, err := parsePositiveInt("MAP_ZOOM", 13)
	if err != nil {
		return nil, err
	}
	burst, err := parsePositiveInt("RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, err
	}
	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "1"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NEOBaseURL:          sharedcfg.EnvOrDefault("NEO_BASE_URL", "https://api.nasa.gov/neo/rest/v1/feed"),
		NEOAPIKey:           sharedcfg.EnvOrDefault("NEO_API_KEY", "DEMO_KEY"),
		ImpactAPIURL:        sharedcfg.EnvOrDefault("IMPACT_API_URL", "https://dejaapi.altafcreator.com/impact"),
		PopulationAPIURL:    sharedcfg.EnvOrDefault("POPULATION_API_URL", "https://lobster-app-bhpix.ondigitalocean.app/"),
		UpstreamTimeout:     upstreamTimeout,
		FeedCardLimit:       cardLimit,
		FeedCacheSize:       parseCacheSize("FEED_CACHE_SIZE", 30),
		FeedCacheTTL:        feedCacheTTL,
		FeedRefreshSpec:     envOrDefaultAllowEmpty("FEED_REFRESH_SCHEDULE", "@hourly"),
		PopulationCacheSize: parseCacheSize("POPULATION_CACHE_SIZE", 1000),

		MapZoom: mapZoom,

		RateLimitRPS:   rps,
		RateLimitBurst: burst,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseCacheSize("MAPBOX_CACHE_SIZE", 1000),

		KafkaBrokers:       brokers,
		KafkaImpactTopic:   sharedcfg.EnvOrDefault("KAFKA_IMPACT_TOPIC", "asteroid-impacts"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.NEOAPIKey == "" {
		return nil, errors.New("NEO_API_KEY is required")
	}
	if cfg.MapZoom > 19 {
		return nil, errors.New("MAP_ZOOM must be between 1 and 19")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled() && cfg.KafkaImpactTopic == "" {
		return nil, errors.New("KAFKA_IMPACT_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.FeedRefreshSpec != "" {
		if _, err := cron.ParseStandard(cfg.FeedRefreshSpec); err != nil {
			return nil, fmt.Errorf("invalid FEED_REFRESH_SCHEDULE: %w", err)
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseCacheSize(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// envOrDefaultAllowEmpty distinguishes an unset variable from one explicitly
// set to "", which disables the feature.
func envOrDefaultAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
