package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
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

	// Geodata configuration. ParcelStore selects the backing store:
	// "geojson" loads the two files, "postgres" uses PostgresDSN, "none"
	// disables location resolution.
	ParcelStore      string
	ParcelDataPath   string
	DrainageDataPath string
	PostgresDSN      string
	FuzzyMatchCutoff float64

	// Model server configuration.
	ModelServerURL     string
	ModelServerEnabled bool
	ModelServerTimeout time.Duration
	ModelCacheSize     int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	modelServerTimeout, err := parseDuration("MODEL_SERVER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	fuzzyCutoff, err := parseFuzzyCutoff()
	if err != nil {
		return nil, err
	}

	modelCacheSize, err := parseModelCacheSize()
	if err != nil {
		return nil, err
	}

	modelServerURL := os.Getenv("MODEL_SERVER_URL")
	modelServerEnabled := modelServerURL != ""
	if v := os.Getenv("MODEL_SERVER_ENABLED"); v != "" {
		modelServerEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "project-submissions"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "stormwater-labels"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "stormwater-classifier"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		ParcelStore:      envOrDefault("PARCEL_STORE", "geojson"),
		ParcelDataPath:   os.Getenv("PARCEL_DATA_PATH"),
		DrainageDataPath: os.Getenv("DRAINAGE_DATA_PATH"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		FuzzyMatchCutoff: fuzzyCutoff,

		ModelServerURL:     modelServerURL,
		ModelServerEnabled: modelServerEnabled,
		ModelServerTimeout: modelServerTimeout,
		ModelCacheSize:     modelCacheSize,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	switch cfg.ParcelStore {
	case "geojson", "none":
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PARCEL_STORE is postgres but POSTGRES_DSN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid PARCEL_STORE %q, want geojson, postgres, or none", cfg.ParcelStore)
	}
	if cfg.ModelServerEnabled && cfg.ModelServerURL == "" {
		return nil, errors.New("MODEL_SERVER_ENABLED is true but MODEL_SERVER_URL is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: want a positive duration", key)
	}
	return d, nil
}

func parseBatchSize() (int, error) {
	n, err := strconv.Atoi(envOrDefault("BATCH_SIZE", "50"))
	if err != nil || n < 1 || n > 1000 {
		return 0, errors.New("invalid BATCH_SIZE: want an integer in [1, 1000]")
	}
	return n, nil
}

func parseModelCacheSize() (int, error) {
	n, err := strconv.Atoi(envOrDefault("MODEL_CACHE_SIZE", "1000"))
	if err != nil || n < 1 {
		return 0, errors.New("invalid MODEL_CACHE_SIZE: want a positive integer")
	}
	return n, nil
}

func parseFuzzyCutoff() (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault("FUZZY_MATCH_CUTOFF", "0.6"), 64)
	if err != nil || v < 0 || v > 1 {
		return 0, errors.New("invalid FUZZY_MATCH_CUTOFF: want a value in [0, 1]")
	}
	return v, nil
}
