package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// ContextKeyRequestID is the gin context key holding the request id.
const ContextKeyRequestID = "request_id"

// RequestID assigns every request an id, reusing a caller-supplied one,
// and attaches a request-scoped logger to the request context.
func RequestID(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, rid)
		c.Header(HeaderRequestID, rid)

		reqLogger := logger.With(zap.String("request_id", rid))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLogger))

		c.Next()
	}
}

// AccessLog logs one line per request after it completes.
func AccessLog(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		l := logging.FromContext(c.Request.Context(), logger)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		l.Info("request completed", fields...)
	}
}
