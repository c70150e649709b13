// ABOUTME: This file tests configuration loading and validation
// ABOUTME: Ensures proper environment variable parsing and required field validation

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		os.Unsetenv(k)
	}
}

func TestLoadConfig(t *testing.T) {
	allKeys := []string{
		"SERVICE_NAME", "LOG_LEVEL", "DB_PASSWORD", "VOCAB_SOURCE", "VOCAB_ACTORS_CSV_PATH",
		"BUCKET_MAX_SPAN_HOURS", "BUCKET_MIN_SIZE", "RETRY_MAX_RETRIES", "RETRY_INITIAL_DELAY",
	}

	tests := map[string]struct {
		envVars     map[string]string
		expectError bool
		validate    func(t *testing.T, cfg *Config)
	}{
		"valid_full_config": {
			envVars: map[string]string{
				"SERVICE_NAME":  "test-pipeline",
				"LOG_LEVEL":     "debug",
				"DB_PASSWORD":   "test_password",
				"VOCAB_SOURCE":  "csv",
				"VOCAB_ACTORS_CSV_PATH": "testdata/actors.csv",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "test-pipeline", cfg.ServiceName)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "test_password", cfg.Database.Password)
				assert.Equal(t, "csv", cfg.Vocab.Source)
				assert.Equal(t, 2, cfg.Bucket.MinSize)
			},
		},
		"missing_required_db_password": {
			envVars: map[string]string{
				"VOCAB_SOURCE": "csv",
			},
			expectError: true,
		},
		"invalid_vocab_source": {
			envVars: map[string]string{
				"DB_PASSWORD":  "test_password",
				"VOCAB_SOURCE": "xml",
			},
			expectError: true,
		},
		"default_values": {
			envVars: map[string]string{
				"DB_PASSWORD": "test_password",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "strategic-news-pipeline", cfg.ServiceName)
				assert.Equal(t, 3, cfg.Retry.MaxRetries)
				assert.Equal(t, 1*time.Second, cfg.Retry.InitialDelay)
				assert.Equal(t, 48.0, cfg.Bucket.MaxSpanHours)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t, allKeys...)
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer clearEnv(t, allKeys...)

			cfg, err := LoadConfig()
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c, _ := LoadConfig()
		return c
	}

	t.Run("retry_initial_delay_exceeds_max", func(t *testing.T) {
		os.Setenv("DB_PASSWORD", "pw")
		defer os.Unsetenv("DB_PASSWORD")
		cfg := valid()
		require.NotNil(t, cfg)
		cfg.Retry.InitialDelay = time.Hour
		cfg.Retry.MaxDelay = time.Minute
		assert.Error(t, cfg.Validate())
	})

	t.Run("bucket_min_size_zero", func(t *testing.T) {
		os.Setenv("DB_PASSWORD", "pw")
		defer os.Unsetenv("DB_PASSWORD")
		cfg := valid()
		require.NotNil(t, cfg)
		cfg.Bucket.MinSize = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestIsProductionIsDevelopment(t *testing.T) {
	cfg := &Config{Environment: "production"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.Environment = "development"
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.IsDevelopment())
}

func TestGetDatabaseConnectionString(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.local",
			Port:     "5432",
			Name:     "strategic_news",
			User:     "svc",
			Password: "secret",
			SSLMode:  "disable",
		},
	}
	connStr := cfg.GetDatabaseConnectionString()
	assert.Contains(t, connStr, "host=db.local")
	assert.Contains(t, connStr, "dbname=strategic_news")
	assert.Contains(t, connStr, "sslmode=disable")
}
