// Package config provides 12-factor configuration management for the chat relay backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Storage: S3 bucket, region and optional endpoint for uploaded images
//   - Detection: prediction service host, timeout and circuit breaker
//   - Fetch: image fetch timeout
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// Environment Variables:
//   - PORT, HOST, CORS_ALLOWED_ORIGINS
//   - AWS_S3_BUCKET, AWS_REGION, AWS_S3_ENDPOINT, AWS_S3_PATH_STYLE
//   - YOLO_SERVICE, DETECTION_TIMEOUT, DETECTION_BREAKER
//   - IMAGE_FETCH_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
