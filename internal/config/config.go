package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath        string
	DatasetLenient     bool
	DatasetRequireRows bool

	// Data overview sampling.
	OverviewSampleRows int
	OverviewSampleSeed uint64

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional publication of the daily traffic classification.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	lenient, err := parseBool("DATASET_LENIENT", false)
	if err != nil {
		return nil, err
	}
	requireRows, err := parseBool("DATASET_REQUIRE_ROWS", false)
	if err != nil {
		return nil, err
	}

	sampleRows, err := strconv.Atoi(sharedcfg.EnvOrDefault("OVERVIEW_SAMPLE_ROWS", "10"))
	if err != nil || sampleRows < 0 {
		return nil, errors.New("invalid OVERVIEW_SAMPLE_ROWS")
	}
	sampleSeed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("OVERVIEW_SAMPLE_SEED", "1"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid OVERVIEW_SAMPLE_SEED")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", len(brokers) > 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetPath:        sharedcfg.EnvOrDefault("DATASET_PATH", "data/hour.csv"),
		DatasetLenient:     lenient,
		DatasetRequireRows: requireRows,
		OverviewSampleRows: sampleRows,
		OverviewSampleSeed: sampleSeed,
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       brokers,
		KafkaTopic:         sharedcfg.EnvOrDefault("KAFKA_TOPIC", "bikeshare-daily-traffic"),
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}
