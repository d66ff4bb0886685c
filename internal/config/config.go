// Package config loads service settings from environment variables.
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
// Command-line flags may override the data file paths per invocation.
type Config struct {
	NEOFile string
	CADFile string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Query API response cache (entries). The data set is immutable for the
	// process lifetime, so cached responses never go stale.
	QueryCacheSize int

	// Kafka publishing configuration.
	KafkaBrokers     []string
	KafkaSinkTopic   string
	PublishBatchSize int

	// JPL SSD API download configuration.
	SBDBTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	sbdbTimeout, err := parseDuration("SBDB_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parsePublishBatchSize()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseQueryCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		NEOFile:          envOrDefault("NEO_FILE", "data/neos.csv"),
		CADFile:          envOrDefault("CAD_FILE", "data/cad.json"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		QueryCacheSize:   cacheSize,
		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:   envOrDefault("KAFKA_SINK_TOPIC", "neo-close-approaches"),
		PublishBatchSize: batchSize,
		SBDBTimeout:      sbdbTimeout,
	}

	if cfg.NEOFile == "" {
		return nil, errors.New("NEO_FILE is required")
	}
	if cfg.CADFile == "" {
		return nil, errors.New("CAD_FILE is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePublishBatchSize() (int, error) {
	s := envOrDefault("PUBLISH_BATCH_SIZE", "50")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return 0, fmt.Errorf("invalid PUBLISH_BATCH_SIZE %q (want 1-1000)", s)
	}
	return n, nil
}

func parseQueryCacheSize() (int, error) {
	s := envOrDefault("QUERY_CACHE_SIZE", "1000")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid QUERY_CACHE_SIZE %q", s)
	}
	return n, nil
}
