package tracing

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// HTTPMiddleware creates Gin middleware for HTTP tracing
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := Extract(c.Request.Context(), c.Request.Header)

		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+c.FullPath())
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.path", c.Request.URL.Path)

		c.Request = c.Request.WithContext(ctx)

		// headers must be set before the handler starts streaming
		c.Header(HeaderTraceID, span.TraceID.String())
		c.Header(HeaderSpanID, span.SpanID.String())

		c.Next()

		span.SetStatus(c.Writer.Status())
		span.SetTag("http.status", strconv.Itoa(c.Writer.Status()))

		var err error
		if len(c.Errors) > 0 {
			err = c.Errors.Last()
		}
		tracer.End(span, err)
	}
}
