// Package logging provides structured logging using uber/zap.
//
// Two output modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Request middleware attaches a child logger carrying the request id to
// the request context with WithContext; downstream code retrieves
// it with FromContext so every line of one chat turn can be correlated.
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	ctx = logging.WithContext(ctx, logger.With(zap.String("request_id", rid)))
//	logging.FromContext(ctx, logger).Info("image uploaded", zap.String("key", key))
package logging
