/*
Package tracing provides lightweight request tracing.

# Overview

Every inbound HTTP request gets a span; the image pipeline opens child
spans for fetch, upload and predict. The trace context travels to the
prediction service in X-Trace-ID / X-Span-ID headers so its logs can be
joined with ours. Finished spans are logged through zap by a background
collector.

# Usage

	tracer := tracing.New("relay", logger.Logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "predict")
	result, err := predictor.Predict(ctx, key)
	tracer.End(span, err)

# Performance

Span collection is buffered (1000 spans) and asynchronous; spans are
dropped with a warning when the buffer is full.
*/
package tracing
