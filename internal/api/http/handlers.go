package http

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/api/stream"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/domain/chat"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/providers/detection"
)

// Version is reported by the status endpoints.
const Version = "0.1.0"

// ImagePipeline runs object detection on one image locator
type ImagePipeline interface {
	Run(ctx context.Context, imageURL string) detection.Outcome
}

// Deps holds the handler collaborators. Breaker and Metrics are optional.
type Deps struct {
	Pipeline      ImagePipeline
	DetectionHost string
	Bucket        string
	Breaker       *resilience.Breaker
	Metrics       *monitoring.Metrics
	Logger        *logging.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	pipeline      ImagePipeline
	detectionHost string
	bucket        string
	breaker       *resilience.Breaker
	metrics       *monitoring.Metrics
	logger        *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		pipeline:      deps.Pipeline,
		detectionHost: deps.DetectionHost,
		bucket:        deps.Bucket,
		breaker:       deps.Breaker,
		metrics:       deps.Metrics,
		logger:        logger,
	}
}

// Root handles the basic status check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Chat Relay (Go)",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	breaker := "disabled"
	if h.breaker != nil {
		breaker = h.breaker.State().String()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"detection": gin.H{
			"host":    h.detectionHost,
			"breaker": breaker,
		},
		"storage": gin.H{"bucket": h.bucket},
	})
}

// Chat answers one chat turn with a streamed object detection reply.
// Only an unreadable body is rejected; every other outcome, including a
// failed detection, is streamed with 200.
func (h *Handlers) Chat(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx, h.logger)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req, err := chat.DecodeRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Normalized history is only observed; the reply does not depend on it
	messages := chat.Normalize(req.Messages)
	logger.Debug("chat request received",
		zap.Int("messages", len(messages)),
		zap.String("model", req.SelectedModel),
	)

	reply, kind := h.reply(ctx, req)
	if h.metrics != nil {
		h.metrics.RecordReply(kind)
	}

	stream.SetHeaders(c.Writer.Header())
	c.Status(http.StatusOK)
	if err := stream.Write(c.Writer, reply); err != nil {
		// client went away; nothing left to send
		logger.Warn("reply stream interrupted", zap.Error(err))
		_ = c.Error(err)
	}
}

func (h *Handlers) reply(ctx context.Context, req *chat.ChatRequest) (string, string) {
	imageURL, ok := req.FirstImage()
	if !ok {
		return chat.PromptReply, monitoring.ReplyPrompt
	}

	out := h.pipeline.Run(ctx, imageURL)
	if !out.OK() {
		return chat.ErrorReply(out.Err, h.detectionHost), monitoring.ReplyError
	}
	return chat.SuccessReply(*out.Result), monitoring.ReplySuccess
}
