package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/logging"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestCORS(t *testing.T) {
	router := setupTestRouter()

	cfg := DefaultCORSConfig()
	router.Use(CORS(cfg))

	router.POST("/api/chat", func(c *gin.Context) {
		c.Header("X-Vercel-AI-Data-Stream", "v1")
		c.String(http.StatusOK, "0:\"hi\"\n")
	})

	tests := []struct {
		name           string
		method         string
		origin         string
		wantStatus     int
		wantCORSHeader bool
	}{
		{
			name:           "simple POST request with origin",
			method:         "POST",
			origin:         "http://localhost:3000",
			wantStatus:     http.StatusOK,
			wantCORSHeader: true,
		},
		{
			name:           "preflight OPTIONS request",
			method:         "OPTIONS",
			origin:         "http://localhost:3000",
			wantStatus:     http.StatusNoContent,
			wantCORSHeader: true,
		},
		{
			name:           "no origin header",
			method:         "POST",
			origin:         "",
			wantStatus:     http.StatusOK,
			wantCORSHeader: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/chat", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == "OPTIONS" {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantCORSHeader {
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"), "CORS header should be set")
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORSExposesStreamHeader(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(DefaultCORSConfig()))
	router.POST("/api/chat", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	exposed := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposed, "x-vercel-ai-data-stream")
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter()

	cfg := RateLimitConfig{
		RequestsPerSecond: 2,
		Burst:             2,
	}
	router.Use(RateLimit(cfg))

	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	// First 2 requests should succeed (burst capacity)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}

	// Third request should be rate limited
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimitDifferentClients(t *testing.T) {
	router := setupTestRouter()

	cfg := RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
	}
	router.Use(RateLimit(cfg))

	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	// Client 1 - First request should succeed
	req1 := httptest.NewRequest("GET", "/test", nil)
	req1.RemoteAddr = "192.168.1.1:1234"
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)

	// Client 2 - First request should also succeed (different IP)
	req2 := httptest.NewRequest("GET", "/test", nil)
	req2.RemoteAddr = "192.168.1.2:1234"
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)

	// Client 1 - Second immediate request should be rate limited
	req3 := httptest.NewRequest("GET", "/test", nil)
	req3.RemoteAddr = "192.168.1.1:1234"
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
}

func TestRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := &logging.Logger{Logger: zap.New(core)}

	router := setupTestRouter()
	router.Use(RequestID(logger), AccessLog(logger))

	var fromCtx *logging.Logger
	router.POST("/api/chat", func(c *gin.Context) {
		fromCtx = logging.FromContext(c.Request.Context(), nil)
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		rid := w.Header().Get(HeaderRequestID)
		_, err := uuid.Parse(rid)
		require.NoError(t, err)
		assert.NotNil(t, fromCtx)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "request completed", entries[0].Message)
		assert.Equal(t, rid, entries[0].ContextMap()["request_id"])
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/chat", nil)
		req.Header.Set(HeaderRequestID, "client-supplied")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-supplied", w.Header().Get(HeaderRequestID))
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "client-supplied", entries[0].ContextMap()["request_id"])
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Contains(t, cfg.AllowOrigins, "*")
	assert.Contains(t, cfg.AllowMethods, "POST")
	assert.Contains(t, cfg.AllowHeaders, HeaderRequestID)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()

	assert.Equal(t, 100, cfg.RequestsPerSecond)
	assert.Equal(t, 200, cfg.Burst)
	assert.Equal(t, 10*time.Minute, cfg.IdleTTL)
}

func BenchmarkRateLimit(b *testing.B) {
	router := setupTestRouter()
	router.Use(RateLimit(DefaultRateLimitConfig()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}
