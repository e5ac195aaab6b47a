package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Detection DetectionConfig
	Fetch     FetchConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" validate:"required,numeric"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Comma separated; "*" allows any origin.
	CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*" validate:"min=1,dive,eq=*|startswith=http://|startswith=https://"`
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Bucket       string `envconfig:"AWS_S3_BUCKET" validate:"required"`
	Region       string `envconfig:"AWS_REGION" default:"eu-west-1" validate:"required"`
	Endpoint     string `envconfig:"AWS_S3_ENDPOINT" validate:"omitempty,url"`
	UsePathStyle bool   `envconfig:"AWS_S3_PATH_STYLE" default:"false"`
}

// DetectionConfig holds prediction service configuration.
// Host is used verbatim when building the predict URL.
type DetectionConfig struct {
	Host           string        `envconfig:"YOLO_SERVICE" default:"localhost:8080"`
	Timeout        time.Duration `envconfig:"DETECTION_TIMEOUT" default:"0s" validate:"gte=0"`
	BreakerEnabled bool          `envconfig:"DETECTION_BREAKER" default:"false"`
}

// FetchConfig holds image fetch configuration.
type FetchConfig struct {
	Timeout time.Duration `envconfig:"IMAGE_FETCH_TIMEOUT" default:"0s" validate:"gte=0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" validate:"gte=0"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" validate:"gte=0"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

var validate = validator.New()

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration before the server is started.
// An unset bucket is rejected here rather than surfacing later as a
// failed upload on every image request.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Region: "eu-west-1",
		},
		Detection: DetectionConfig{
			Host: "localhost:8080",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
