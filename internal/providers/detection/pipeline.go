package detection

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/domain/chat"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/tracing"
)

// unknownError describes failures that carry no message.
const unknownError = "Unknown error"

// Store persists uploaded images
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// ImageFetcher dereferences an image locator
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) (*Image, error)
}

// ObjectPredictor runs detection on a stored object
type ObjectPredictor interface {
	Predict(ctx context.Context, key string) (*chat.DetectionResult, error)
}

// KeySource names stored objects
type KeySource interface {
	Next() string
}

// Outcome is the result of one pipeline run: either Result or Err is set.
type Outcome struct {
	Result *chat.DetectionResult
	Err    string
}

// OK reports whether the run produced a detection result.
func (o Outcome) OK() bool {
	return o.Result != nil
}

// Deps holds the pipeline collaborators. Tracer, Metrics and Logger are
// optional. Logger is only used when the run context carries no request
// logger.
type Deps struct {
	Fetcher   ImageFetcher
	Store     Store
	Keys      KeySource
	Predictor ObjectPredictor
	Tracer    *tracing.Tracer
	Metrics   *monitoring.Metrics
	Logger    *zap.Logger
}

// Pipeline runs fetch, upload and predict for one image
type Pipeline struct {
	fetcher   ImageFetcher
	store     Store
	keys      KeySource
	predictor ObjectPredictor
	tracer    *tracing.Tracer
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// NewPipeline creates a pipeline
func NewPipeline(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	keys := deps.Keys
	if keys == nil {
		keys = storage.NewKeyGenerator()
	}

	return &Pipeline{
		fetcher:   deps.Fetcher,
		store:     deps.Store,
		keys:      keys,
		predictor: deps.Predictor,
		tracer:    deps.Tracer,
		metrics:   deps.Metrics,
		logger:    &logging.Logger{Logger: logger},
	}
}

// Run processes imageURL. Stages run strictly in order and the first
// failure ends the run. Run never fails; errors and panics from
// collaborators become Outcome.Err.
func (p *Pipeline) Run(ctx context.Context, imageURL string) (out Outcome) {
	logger := logging.FromContext(ctx, p.logger).
		With(zap.String("trace_id", tracing.TraceIDFrom(ctx).String()))

	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: panicDescription(r)}
			logger.Error("object detection panicked", zap.Any("panic", r))
		}
	}()

	result, err := p.process(ctx, imageURL)
	if err != nil {
		logger.Error("object detection failed", zap.Error(err))
		return Outcome{Err: describe(err)}
	}

	logger.Info("object detection complete",
		zap.Int("detection_count", result.DetectionCount),
		zap.String("prediction_uid", result.PredictionUID),
	)
	if p.metrics != nil {
		p.metrics.RecordDetections(result.DetectionCount)
	}
	return Outcome{Result: result}
}

func (p *Pipeline) process(ctx context.Context, imageURL string) (*chat.DetectionResult, error) {
	img, err := stage(ctx, p, monitoring.StageFetch, func(ctx context.Context) (*Image, error) {
		return p.fetcher.Fetch(ctx, imageURL)
	})
	if err != nil {
		return nil, err
	}

	key := p.keys.Next()
	_, err = stage(ctx, p, monitoring.StageUpload, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.store.Put(ctx, key, img.Data, storage.ContentTypeJPEG)
	})
	if err != nil {
		return nil, err
	}

	result, err := stage(ctx, p, monitoring.StagePredict, func(ctx context.Context) (*chat.DetectionResult, error) {
		return p.predictor.Predict(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrEmptyPrediction
	}
	return result, nil
}

// stage runs fn under a child span and a stage timer.
func stage[T any](ctx context.Context, p *Pipeline, name string, fn func(context.Context) (T, error)) (T, error) {
	var span *tracing.Span
	if p.tracer != nil {
		span, ctx = p.tracer.StartSpan(ctx, name)
	}
	timer := monitoring.NewTimer(p.metrics, name)

	result, err := fn(ctx)

	timer.Stop(err)
	if span != nil {
		p.tracer.End(span, err)
	}
	return result, err
}

func describe(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownError
}

func panicDescription(r interface{}) string {
	switch v := r.(type) {
	case error:
		return describe(v)
	case string:
		if v != "" {
			return v
		}
	}
	return unknownError
}
