/*
Package monitoring provides Prometheus metrics for the chat relay.

# Overview

Each Metrics value owns a private registry, so several servers (or tests)
can live in one process without duplicate registration panics.

# Metrics

- HTTP request metrics (latency, throughput, size)
- Image pipeline stage calls, durations and failures (fetch, upload, predict)
- Replies by kind (prompt, success, error)
- Detections per image and fetched image types
- Circuit breaker state and uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, monitoring.StageUpload)
	err := store.Put(ctx, key, body, "image/jpeg")
	timer.Stop(err)
*/
package monitoring
