package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withManualReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		otel.SetMeterProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	return reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}

func counterTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(Middleware())

	r.GET("/api/v1/quotes/random", func(c *gin.Context) {
		if c.Query("fail") != "" {
			c.Set(DegradedKey, "upstream_unavailable")
		}
		c.Status(http.StatusOK)
	})
	r.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	return r
}

func serve(r http.Handler, target string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
}

func TestMiddleware_RecordsRequests(t *testing.T) {
	reader := withManualReader(t)
	r := newTestEngine()

	serve(r, "/api/v1/quotes/random")
	serve(r, "/api/v1/quotes/random")

	metrics := collect(t, reader)

	require.Contains(t, metrics, "http.server.request.total")
	assert.Equal(t, int64(2), counterTotal(t, metrics["http.server.request.total"]))
	assert.Contains(t, metrics, "http.server.request.duration")
	assert.NotContains(t, metrics, "http.server.degraded_responses")
}

func TestMiddleware_CountsDegradedResponses(t *testing.T) {
	reader := withManualReader(t)
	r := newTestEngine()

	serve(r, "/api/v1/quotes/random?fail=1")

	metrics := collect(t, reader)

	require.Contains(t, metrics, "http.server.degraded_responses")
	assert.Equal(t, int64(1), counterTotal(t, metrics["http.server.degraded_responses"]))
}

func TestMiddleware_SkipsProbes(t *testing.T) {
	reader := withManualReader(t)
	r := newTestEngine()

	serve(r, "/-/live")

	metrics := collect(t, reader)

	assert.NotContains(t, metrics, "http.server.request.total")
}

func TestMiddleware_EchoesTraceID(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	var buf bytes.Buffer

	r := gin.New()
	r.Use(func(c *gin.Context) {
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
	}, TracingMiddleware("sasuke-quotes"), Middleware())

	r.GET("/api/v1/state", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("state read")
		c.Status(http.StatusOK)
	})
	r.GET("/-/ready", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))

	traceID := w.Header().Get(HeaderTraceID)
	assert.Len(t, traceID, 32)
	assert.Contains(t, buf.String(), `"trace_id":"`+traceID+`"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

	assert.Empty(t, w.Header().Get(HeaderTraceID), "probes are not traced")
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})

	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}
