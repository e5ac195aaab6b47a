// Package middleware provides the HTTP middleware of the chat relay.
//
// Middleware stack includes:
//   - RequestID: X-Request-ID propagation and a request-scoped zap logger
//   - AccessLog: one structured log line per request
//   - CORS: Cross-origin resource sharing for the chat UI
//   - RateLimit: Per-IP token bucket rate limiting
//
// Rate Limiting:
//   - Per-IP tracking with idle cleanup
//   - Token bucket algorithm
//   - Configurable RPS and burst capacity
//
// Example Usage:
//
//	router.Use(middleware.RequestID(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
