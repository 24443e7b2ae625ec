package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/dto"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// logLines decodes the JSON lines written by a test logger.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}

		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}

	return lines
}

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: logging.LevelTrace}))
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		status    int
		degraded  string
		wantLevel string
		wantLines int
	}{
		{name: "success", target: "/api/v1/quotes?q=hatred", status: http.StatusOK, wantLevel: "INFO", wantLines: 2},
		{name: "client error", target: "/api/v1/favorites/x", status: http.StatusBadRequest, wantLevel: "WARN", wantLines: 2},
		{name: "server error", target: "/api/v1/state", status: http.StatusInternalServerError, wantLevel: "ERROR", wantLines: 2},
		{name: "degraded", target: "/api/v1/quotes/random", status: http.StatusOK, degraded: "random_fallback", wantLevel: "INFO", wantLines: 2},
		{name: "health probe skipped", target: "/-/ready", status: http.StatusOK, wantLines: 0},
		{name: "skip path", target: "/favicon.ico", status: http.StatusNotFound, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(Logging(newBufferLogger(&buf), "/favicon.ico"))
			router.NoRoute(func(c *gin.Context) {
				if tt.degraded != "" {
					c.Set(telemetry.DegradedKey, tt.degraded)
				}
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			lines := logLines(t, &buf)
			require.Len(t, lines, tt.wantLines)

			if tt.wantLines == 0 {
				return
			}

			done := lines[len(lines)-1]
			assert.Equal(t, "request completed", done["msg"])
			assert.Equal(t, tt.wantLevel, done["level"])
			assert.Equal(t, tt.target, done["path"])
			assert.EqualValues(t, tt.status, done["status"])

			if tt.degraded != "" {
				assert.Equal(t, tt.degraded, done["degraded"])
			} else {
				assert.NotContains(t, done, "degraded")
			}
		})
	}
}

func TestLogging_UsesRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	logging.SetDefault(newBufferLogger(&buf))
	t.Cleanup(func() { logging.SetDefault(previous) })

	router := gin.New()
	router.Use(RequestID(), Logging(nil))
	router.GET("/api/v1/state", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req.Header.Set(HeaderRequestID, "req-abc")
	router.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, &buf)
	require.NotEmpty(t, lines)
	assert.Equal(t, "req-abc", lines[len(lines)-1]["request_id"])
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(Recovery(newBufferLogger(&buf)))
	router.GET("/api/v1/quotes/random", func(_ *gin.Context) {
		panic("nil quote source")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/random", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "nil quote source")

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "panic recovered", lines[0]["msg"])
	assert.Equal(t, "nil quote source", lines[0]["error"])
	assert.NotEmpty(t, lines[0]["stack"])
}

func TestRecovery_AfterWrite(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(slog.New(slog.DiscardHandler)))
	router.GET("/api/v1/state", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTimeout_SetsContextDeadline(t *testing.T) {
	var hasDeadline bool

	router := gin.New()
	router.Use(Timeout(time.Second))
	router.GET("/api/v1/state", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))

	assert.True(t, hasDeadline)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeout_RespondsWhenDeadlinePasses(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(10 * time.Millisecond))
	router.GET("/api/v1/quotes", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeTimeout, resp.Error.Code)
}
