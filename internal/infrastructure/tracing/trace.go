package tracing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/shared/id"
	"go.uber.org/zap"
)

const (
	HeaderTraceID = "X-Trace-ID"
	HeaderSpanID  = "X-Span-ID"
)

// Span represents a single operation in a trace
type Span struct {
	TraceID   id.TraceID
	SpanID    id.SpanID
	ParentID  id.SpanID
	Name      string
	Service   string
	StartTime time.Time
	Duration  time.Duration
	Tags      map[string]string
	Error     error
	Status    int
}

// Tracer collects finished spans and logs them
type Tracer struct {
	service string
	logger  *zap.Logger
	spans   chan *Span

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a tracer and starts its collector
func New(service string, logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		service: service,
		logger:  logger,
		spans:   make(chan *Span, 1000),
		done:    make(chan struct{}),
	}

	go t.collectSpans()

	return t
}

// StartSpan creates a child of the span in ctx, or a new trace root
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	traceID := TraceIDFrom(ctx)
	if traceID == "" {
		traceID = id.NewTraceID()
	}

	span := &Span{
		TraceID:   traceID,
		SpanID:    id.NewSpanID(),
		ParentID:  SpanIDFrom(ctx),
		Name:      name,
		Service:   t.service,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}

	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, span.SpanID)

	return span, ctx
}

// End finishes span with err and hands it to the collector
func (t *Tracer) End(span *Span, err error) {
	if err != nil {
		span.SetError(err)
	}
	span.Finish()
	t.Submit(span)
}

// Finish marks the span as complete
func (s *Span) Finish() {
	if s.Duration == 0 {
		s.Duration = time.Since(s.StartTime)
	}
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records an error in the span
func (s *Span) SetError(err error) {
	s.Error = err
}

// SetStatus sets the HTTP status code
func (s *Span) SetStatus(code int) {
	s.Status = code
}

func (t *Tracer) collectSpans() {
	defer close(t.done)
	for span := range t.spans {
		t.processSpan(span)
	}
}

func (t *Tracer) processSpan(span *Span) {
	fields := []zap.Field{
		zap.String("trace_id", span.TraceID.String()),
		zap.String("span_id", span.SpanID.String()),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
		zap.String("service", span.Service),
	}

	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", span.ParentID.String()))
	}
	if span.Status != 0 {
		fields = append(fields, zap.Int("status", span.Status))
	}
	for k, v := range span.Tags {
		fields = append(fields, zap.String(k, v))
	}

	if span.Error != nil {
		fields = append(fields, zap.Error(span.Error))
		t.logger.Warn("span completed with error", fields...)
	} else {
		t.logger.Debug("span completed", fields...)
	}
}

// Submit sends a span to the collector without blocking
func (t *Tracer) Submit(span *Span) {
	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", span.TraceID.String()),
			zap.String("span_id", span.SpanID.String()),
		)
	}
}

// Close drains pending spans and stops the collector. Submit must not be
// called after Close.
func (t *Tracer) Close() {
	t.closeOnce.Do(func() {
		close(t.spans)
	})
	<-t.done
}

// Context keys for trace propagation
type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// TraceIDFrom retrieves the trace ID from context
func TraceIDFrom(ctx context.Context) id.TraceID {
	traceID, _ := ctx.Value(traceIDKey).(id.TraceID)
	return traceID
}

// SpanIDFrom retrieves the span ID from context
func SpanIDFrom(ctx context.Context) id.SpanID {
	spanID, _ := ctx.Value(spanIDKey).(id.SpanID)
	return spanID
}

// Extract returns ctx carrying the trace context found in h, if any.
// Headers that do not hold a ULID are ignored.
func Extract(ctx context.Context, h http.Header) context.Context {
	if traceID := h.Get(HeaderTraceID); id.IsValid(traceID) {
		ctx = context.WithValue(ctx, traceIDKey, id.TraceID(traceID))
	}
	if spanID := h.Get(HeaderSpanID); id.IsValid(spanID) {
		ctx = context.WithValue(ctx, spanIDKey, id.SpanID(spanID))
	}
	return ctx
}

// Inject writes the trace context of ctx into outbound headers
func Inject(ctx context.Context, h http.Header) {
	if traceID := TraceIDFrom(ctx); traceID != "" {
		h.Set(HeaderTraceID, traceID.String())
	}
	if spanID := SpanIDFrom(ctx); spanID != "" {
		h.Set(HeaderSpanID, spanID.String())
	}
}
