package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages
const (
	StageFetch   = "fetch"
	StageUpload  = "upload"
	StagePredict = "predict"
)

// Reply kinds
const (
	ReplyPrompt  = "prompt"
	ReplySuccess = "success"
	ReplyError   = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Pipeline metrics
	StageCalls    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec

	// Chat metrics
	Replies      *prometheus.CounterVec
	Detections   prometheus.Histogram
	ImageTypes   *prometheus.CounterVec
	ImageBytes   prometheus.Histogram
	BreakerState *prometheus.GaugeVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a metrics collector backed by its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Pipeline metrics
		StageCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_pipeline_stage_calls_total",
				Help: "Total number of image pipeline stage calls",
			},
			[]string{"stage", "status"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_pipeline_stage_duration_seconds",
				Help:    "Image pipeline stage duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		StageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_pipeline_stage_errors_total",
				Help: "Total number of image pipeline stage failures",
			},
			[]string{"stage"},
		),

		// Chat metrics
		Replies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_replies_total",
				Help: "Total number of streamed replies by kind",
			},
			[]string{"kind"},
		),
		Detections: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "relay_detections_per_image",
				Help:    "Objects detected per processed image",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		ImageTypes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_fetched_images_total",
				Help: "Fetched images by sniffed MIME type",
			},
			[]string{"mime"},
		),
		ImageBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "relay_fetched_image_bytes",
				Help:    "Size of fetched images in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "relay_circuit_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "relay_uptime_seconds",
			Help: "Relay uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordStage records one pipeline stage call.
func (m *Metrics) RecordStage(stage string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		m.StageErrors.WithLabelValues(stage).Inc()
	}
	m.StageCalls.WithLabelValues(stage, status).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordReply counts a streamed reply.
func (m *Metrics) RecordReply(kind string) {
	m.Replies.WithLabelValues(kind).Inc()
}

// RecordDetections observes the detection count of one image.
func (m *Metrics) RecordDetections(count int) {
	m.Detections.Observe(float64(count))
}

// RecordImage records a fetched image.
func (m *Metrics) RecordImage(mime string, size int) {
	m.ImageTypes.WithLabelValues(mime).Inc()
	m.ImageBytes.Observe(float64(size))
}

// SetBreakerState exports a breaker state value.
func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}
