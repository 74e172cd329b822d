package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds the settings for both binaries, populated from environment
// variables. The estimator uses the Kafka, HTTP, and batch settings; the CLI
// uses the session, region, and delay settings. Both share logging and Mapbox.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Mapbox geocoding, enabled by MAPBOX_TOKEN unless MAPBOX_ENABLED says otherwise.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Simulated round trips. Zero disables the delay.
	EstimateDelay time.Duration
	AuthDelay     time.Duration

	// SessionDir is where the session record lives. Empty means the user config dir.
	SessionDir string
	// RegionsFile overrides the embedded region catalog when set.
	RegionsFile string
}

const defaultMapboxCacheSize = 1000

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:    sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:    sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		SessionDir:  os.Getenv("SESSION_DIR"),
		RegionsFile: os.Getenv("REGIONS_FILE"),
	}

	for _, load := range []func(*Config) error{loadKafka, loadBatching, loadMapbox, loadDelays} {
		if err := load(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadKafka(cfg *Config) error {
	cfg.KafkaBrokers = sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092"))
	cfg.KafkaSourceTopic = sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "property-submissions")
	cfg.KafkaSinkTopic = sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "harvest-estimates")
	cfg.KafkaGroupID = sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "rainwater-estimator")

	switch {
	case len(cfg.KafkaBrokers) == 0:
		return errors.New("KAFKA_BROKERS is required")
	case cfg.KafkaSourceTopic == "":
		return errors.New("KAFKA_SOURCE_TOPIC is required")
	case cfg.KafkaSinkTopic == "":
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	return nil
}

func loadBatching(cfg *Config) error {
	var err error
	if cfg.ShutdownTimeout, err = sharedcfg.ParseShutdownTimeout(); err != nil {
		return err
	}
	if cfg.BatchSize, err = sharedcfg.ParseBatchSize(); err != nil {
		return err
	}
	if cfg.BatchFlushInterval, err = sharedcfg.ParseBatchFlushInterval(); err != nil {
		return err
	}
	return nil
}

func loadMapbox(cfg *Config) error {
	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return errors.New("invalid MAPBOX_TIMEOUT")
	}
	cfg.MapboxTimeout = timeout

	cfg.MapboxCacheSize = defaultMapboxCacheSize
	if n, err := strconv.Atoi(os.Getenv("MAPBOX_CACHE_SIZE")); err == nil && n > 0 {
		cfg.MapboxCacheSize = n
	}

	cfg.MapboxToken = os.Getenv("MAPBOX_TOKEN")
	cfg.MapboxEnabled = cfg.MapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		cfg.MapboxEnabled = v == "true"
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	return nil
}

func loadDelays(cfg *Config) error {
	var err error
	if cfg.EstimateDelay, err = parseDelay("ESTIMATE_DELAY", "2s"); err != nil {
		return err
	}
	cfg.AuthDelay, err = parseDelay("AUTH_DELAY", "1s")
	return err
}

func parseDelay(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
