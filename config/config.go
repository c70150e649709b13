// ABOUTME: This file handles configuration management for the news intelligence pipeline
// ABOUTME: Loads environment variables and validates configuration for ingestion, gating, and bucketing

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the pipeline's three batch drivers.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	LogLevel       string

	Database DatabaseConfig

	HTTPClient HTTPClientConfig
	Retry      RetryConfig

	CircuitBreaker CircuitBreakerConfig
	Monitoring     MonitoringConfig

	Ingestion IngestionConfig
	Vocab     VocabConfig
	Gate      GateConfig
	Bucket    BucketConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// HTTPClientConfig holds HTTP client configuration used by the feed fetcher.
type HTTPClientConfig struct {
	Timeout               time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	IdleConnTimeout       time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
}

// RetryConfig holds retry/backoff configuration for feed polling.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// CircuitBreakerConfig holds circuit breaker configuration for outbound feed requests.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
	MaxRequests      int
}

// MonitoringConfig holds in-process metrics collection configuration.
type MonitoringConfig struct {
	EnableMetrics     bool
	MetricsBatchSize  int
	FlushInterval     time.Duration
	RetentionDuration time.Duration
}

// IngestionConfig holds RSS/Atom fetcher configuration.
type IngestionConfig struct {
	LookbackDays        int
	MaxItemsPerFeed     int
	MaxConcurrentFeeds  int
	UserAgent           string
}

// VocabConfig holds actor vocabulary loading configuration.
type VocabConfig struct {
	Source       string // "csv" or "db"
	ActorCSVPath string
}

// GateConfig holds Strategic Gate batch processing configuration.
type GateConfig struct {
	DefaultBatchSize int
	DefaultMaxBatches int
}

// BucketConfig holds Bucket Manager configuration.
type BucketConfig struct {
	MaxSpanHours           float64
	MinSize                int
	ProcessingWindowHours  int
	MaxActors              int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServiceName:    getEnvOrDefault("SERVICE_NAME", "strategic-news-pipeline"),
		ServiceVersion: getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
		Environment:    getEnvOrDefault("ENVIRONMENT", "development"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),

		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			Name:     getEnvOrDefault("DB_NAME", "strategic_news"),
			User:     getEnvOrDefault("DB_USER", "strategic_news_user"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},

		HTTPClient: HTTPClientConfig{
			Timeout:               getEnvOrDefaultDuration("HTTP_CLIENT_TIMEOUT", 30*time.Second),
			TLSHandshakeTimeout:   getEnvOrDefaultDuration("HTTP_CLIENT_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvOrDefaultDuration("HTTP_CLIENT_RESPONSE_HEADER_TIMEOUT", 15*time.Second),
			IdleConnTimeout:       getEnvOrDefaultDuration("HTTP_CLIENT_IDLE_CONN_TIMEOUT", 90*time.Second),
			MaxIdleConns:          getEnvOrDefaultInt("HTTP_CLIENT_MAX_IDLE_CONNS", 20),
			MaxIdleConnsPerHost:   getEnvOrDefaultInt("HTTP_CLIENT_MAX_IDLE_CONNS_PER_HOST", 4),
		},

		Retry: RetryConfig{
			MaxRetries:   getEnvOrDefaultInt("RETRY_MAX_RETRIES", 3),
			InitialDelay: getEnvOrDefaultDuration("RETRY_INITIAL_DELAY", 1*time.Second),
			MaxDelay:     getEnvOrDefaultDuration("RETRY_MAX_DELAY", 30*time.Second),
			Multiplier:   getEnvOrDefaultFloat("RETRY_MULTIPLIER", 2.0),
		},

		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getEnvOrDefaultInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvOrDefaultInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			Timeout:          getEnvOrDefaultDuration("CIRCUIT_BREAKER_TIMEOUT", 60*time.Second),
			MaxRequests:      getEnvOrDefaultInt("CIRCUIT_BREAKER_MAX_REQUESTS", 2),
		},

		Monitoring: MonitoringConfig{
			EnableMetrics:     getEnvOrDefaultBool("MONITORING_ENABLE_METRICS", true),
			MetricsBatchSize:  getEnvOrDefaultInt("MONITORING_METRICS_BATCH_SIZE", 100),
			FlushInterval:     getEnvOrDefaultDuration("MONITORING_FLUSH_INTERVAL", 30*time.Second),
			RetentionDuration: getEnvOrDefaultDuration("MONITORING_RETENTION_DURATION", 24*time.Hour),
		},

		Ingestion: IngestionConfig{
			LookbackDays:       getEnvOrDefaultInt("INGEST_LOOKBACK_DAYS", 2),
			MaxItemsPerFeed:    getEnvOrDefaultInt("INGEST_MAX_ITEMS_PER_FEED", 200),
			MaxConcurrentFeeds: getEnvOrDefaultInt("INGEST_MAX_CONCURRENT_FEEDS", 8),
			UserAgent:          getEnvOrDefault("INGEST_USER_AGENT", "strategic-news-pipeline/1.0"),
		},

		Vocab: VocabConfig{
			Source:       getEnvOrDefault("VOCAB_SOURCE", "csv"),
			ActorCSVPath: getEnvOrDefault("VOCAB_ACTORS_CSV_PATH", "actors.csv"),
		},

		Gate: GateConfig{
			DefaultBatchSize:  getEnvOrDefaultInt("GATE_DEFAULT_BATCH_SIZE", 500),
			DefaultMaxBatches: getEnvOrDefaultInt("GATE_DEFAULT_MAX_BATCHES", 20),
		},

		Bucket: BucketConfig{
			MaxSpanHours:          getEnvOrDefaultFloat("BUCKET_MAX_SPAN_HOURS", 48.0),
			MinSize:               getEnvOrDefaultInt("BUCKET_MIN_SIZE", 2),
			ProcessingWindowHours: getEnvOrDefaultInt("BUCKET_PROCESSING_WINDOW_HOURS", 72),
			MaxActors:             getEnvOrDefaultInt("BUCKET_MAX_ACTORS", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("SERVICE_NAME is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Vocab.Source != "csv" && c.Vocab.Source != "db" {
		return fmt.Errorf("VOCAB_SOURCE must be 'csv' or 'db'")
	}
	if c.Vocab.Source == "csv" && c.Vocab.ActorCSVPath == "" {
		return fmt.Errorf("VOCAB_ACTORS_CSV_PATH is required when VOCAB_SOURCE=csv")
	}
	if c.HTTPClient.Timeout <= 0 {
		return fmt.Errorf("HTTP_CLIENT_TIMEOUT must be positive")
	}

	if c.CircuitBreaker.FailureThreshold <= 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_FAILURE_THRESHOLD must be positive")
	}
	if c.CircuitBreaker.SuccessThreshold <= 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_SUCCESS_THRESHOLD must be positive")
	}
	if c.CircuitBreaker.Timeout <= 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT must be positive")
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("RETRY_MAX_RETRIES must be non-negative")
	}
	if c.Retry.InitialDelay <= 0 {
		return fmt.Errorf("RETRY_INITIAL_DELAY must be positive")
	}
	if c.Retry.MaxDelay <= 0 {
		return fmt.Errorf("RETRY_MAX_DELAY must be positive")
	}
	if c.Retry.InitialDelay > c.Retry.MaxDelay {
		return fmt.Errorf("RETRY_INITIAL_DELAY must be less than or equal to RETRY_MAX_DELAY")
	}
	if c.Retry.Multiplier <= 1.0 {
		return fmt.Errorf("RETRY_MULTIPLIER must be greater than 1.0")
	}

	if c.Bucket.MinSize <= 0 {
		return fmt.Errorf("BUCKET_MIN_SIZE must be positive")
	}
	if c.Bucket.MaxSpanHours <= 0 {
		return fmt.Errorf("BUCKET_MAX_SPAN_HOURS must be positive")
	}
	if c.Bucket.MaxActors <= 0 {
		return fmt.Errorf("BUCKET_MAX_ACTORS must be positive")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// IsProduction returns true if the environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetDatabaseConnectionString returns the database connection string for lib/pq.
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.User,
		c.Database.Password,
		c.Database.SSLMode,
	)
}
