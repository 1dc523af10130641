// Package config loads application configuration from an optional YAML file
// with environment-variable overrides. It provides typed structs for every
// subsystem (Index, Noise, Redis, Kafka, Analytics, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by IndexConfig.Backend.
const (
	BackendTree  = "tree"
	BackendHash  = "hash"
	BackendRedis = "redis"
)

// Config is the top-level application configuration.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Noise     NoiseConfig     `yaml:"noise"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// IndexConfig controls the word index: which backend stores entries and the
// limits applied while building it.
type IndexConfig struct {
	Backend             string `yaml:"backend"`
	InitialLineCapacity int    `yaml:"initialLineCapacity"`
	MaxWordLength       int    `yaml:"maxWordLength"`
	MemoryLimit         int64  `yaml:"memoryLimit"`
}

// NoiseConfig extends the built-in noise word list.
type NoiseConfig struct {
	ExtraWords []string `yaml:"extraWords"`
}

// RedisConfig holds Redis connection parameters for the redis backend.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	PoolSize  int           `yaml:"poolSize"`
	KeyPrefix string        `yaml:"keyPrefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// KafkaConfig holds Kafka broker and topic settings for analytics events.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// AnalyticsConfig toggles publishing of index and search events.
type AnalyticsConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"bufferSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults. The result is validated before returning.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config suitable for indexing a single local file with the
// in-memory tree and no external services.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Backend:             BackendTree,
			InitialLineCapacity: 10,
			MaxWordLength:       100,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  10,
			KeyPrefix: "tfs",
			TTL:       time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "search-analytics",
		},
		Analytics: AnalyticsConfig{
			BufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Port: 9090,
		},
	}
}

// Validate rejects settings the index cannot work with.
func (c *Config) Validate() error {
	switch c.Index.Backend {
	case BackendTree, BackendHash, BackendRedis:
	default:
		return fmt.Errorf("unknown index backend %q", c.Index.Backend)
	}
	if c.Index.InitialLineCapacity < 1 {
		return fmt.Errorf("index.initialLineCapacity must be positive, got %d", c.Index.InitialLineCapacity)
	}
	if c.Index.MaxWordLength < 1 {
		return fmt.Errorf("index.maxWordLength must be positive, got %d", c.Index.MaxWordLength)
	}
	if c.Index.MemoryLimit < 0 {
		return fmt.Errorf("index.memoryLimit must not be negative, got %d", c.Index.MemoryLimit)
	}
	return nil
}

// applyEnvOverrides reads TFS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TFS_INDEX_BACKEND"); v != "" {
		cfg.Index.Backend = v
	}
	if v := os.Getenv("TFS_INDEX_MEMORY_LIMIT"); v != "" {
		if limit, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Index.MemoryLimit = limit
		}
	}
	if v := os.Getenv("TFS_NOISE_EXTRA_WORDS"); v != "" {
		cfg.Noise.ExtraWords = strings.Split(v, ",")
	}
	if v := os.Getenv("TFS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TFS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TFS_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("TFS_ANALYTICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Analytics.Enabled = enabled
		}
	}
	if v := os.Getenv("TFS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TFS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TFS_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("TFS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
