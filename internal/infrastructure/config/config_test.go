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
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	// Storage config
	assert.Empty(t, cfg.Storage.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.False(t, cfg.Storage.UsePathStyle)

	// Detection config
	assert.Equal(t, "localhost:8080", cfg.Detection.Host)
	assert.Zero(t, cfg.Detection.Timeout)
	assert.False(t, cfg.Detection.BreakerEnabled)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                 "9000",
		"HOST":                 "127.0.0.1",
		"AWS_S3_BUCKET":        "detections",
		"AWS_REGION":           "us-east-1",
		"AWS_S3_ENDPOINT":      "http://minio:9000",
		"AWS_S3_PATH_STYLE":    "true",
		"YOLO_SERVICE":         "yolo:8081",
		"DETECTION_TIMEOUT":    "5s",
		"DETECTION_BREAKER":    "true",
		"IMAGE_FETCH_TIMEOUT":  "2s",
		"LOG_LEVEL":            "debug",
		"LOG_DEV":              "true",
		"RATE_LIMIT_RPS":       "500",
		"RATE_LIMIT_BURST":     "1000",
		"RATE_LIMIT_ENABLED":   "false",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000,https://chat.example.com",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, []string{"http://localhost:3000", "https://chat.example.com"}, cfg.Server.CORSOrigins)

	assert.Equal(t, "detections", cfg.Storage.Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, "http://minio:9000", cfg.Storage.Endpoint)
	assert.True(t, cfg.Storage.UsePathStyle)

	assert.Equal(t, "yolo:8081", cfg.Detection.Host)
	assert.Equal(t, 5*time.Second, cfg.Detection.Timeout)
	assert.True(t, cfg.Detection.BreakerEnabled)
	assert.Equal(t, 2*time.Second, cfg.Fetch.Timeout)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	clearEnv(t, "HOST", "AWS_REGION", "YOLO_SERVICE", "AWS_S3_BUCKET", "CORS_ALLOWED_ORIGINS")
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Verify default values still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.Equal(t, "localhost:8080", cfg.Detection.Host)
	assert.Empty(t, cfg.Storage.Bucket)
}

func TestLoadRejectsBadValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	_, err := Load()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid with bucket",
			mutate: func(cfg *Config) { cfg.Storage.Bucket = "uploads" },
		},
		{
			name:    "empty bucket is rejected",
			mutate:  func(cfg *Config) {},
			wantErr: "Bucket",
		},
		{
			name: "non numeric port",
			mutate: func(cfg *Config) {
				cfg.Storage.Bucket = "uploads"
				cfg.Server.Port = "http"
			},
			wantErr: "Port",
		},
		{
			name: "unknown log level",
			mutate: func(cfg *Config) {
				cfg.Storage.Bucket = "uploads"
				cfg.Logging.Level = "verbose"
			},
			wantErr: "Level",
		},
		{
			name: "malformed endpoint",
			mutate: func(cfg *Config) {
				cfg.Storage.Bucket = "uploads"
				cfg.Storage.Endpoint = "not a url"
			},
			wantErr: "Endpoint",
		},
		{
			name: "negative detection timeout",
			mutate: func(cfg *Config) {
				cfg.Storage.Bucket = "uploads"
				cfg.Detection.Timeout = -time.Second
			},
			wantErr: "Timeout",
		},
		{
			name: "origin without scheme",
			mutate: func(cfg *Config) {
				cfg.Storage.Bucket = "uploads"
				cfg.Server.CORSOrigins = []string{"localhost:3000"}
			},
			wantErr: "CORSOrigins",
		},
		{
			name: "no origins",
			mutate: func(cfg *Config) {
				cfg.Storage.Bucket = "uploads"
				cfg.Server.CORSOrigins = nil
			},
			wantErr: "CORSOrigins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDetectionConfig(t *testing.T) {
	tests := []struct {
		name        string
		host        string
		breaker     string
		wantHost    string
		wantBreaker bool
	}{
		{
			name:        "default values",
			wantHost:    "localhost:8080",
			wantBreaker: false,
		},
		{
			name:        "custom host is kept verbatim",
			host:        "10.0.0.5:9000/yolo",
			wantHost:    "10.0.0.5:9000/yolo",
			wantBreaker: false,
		},
		{
			name:        "breaker enabled",
			breaker:     "true",
			wantHost:    "localhost:8080",
			wantBreaker: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, "YOLO_SERVICE", "DETECTION_BREAKER")
			if tt.host != "" {
				t.Setenv("YOLO_SERVICE", tt.host)
			}
			if tt.breaker != "" {
				t.Setenv("DETECTION_BREAKER", tt.breaker)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.wantHost, cfg.Detection.Host)
			assert.Equal(t, tt.wantBreaker, cfg.Detection.BreakerEnabled)
		})
	}
}
