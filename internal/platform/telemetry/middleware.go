package telemetry

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
)

const (
	instrumentationName = "github.com/Augusto240/sasuke-quotes-app/telemetry"

	// DegradedKey is the gin context key a handler sets, with a short reason,
	// when it answers with fallback content instead of upstream data.
	DegradedKey = "telemetry.degraded"

	// HeaderTraceID echoes the active trace ID on every traced response.
	HeaderTraceID = "X-Trace-ID"

	probePrefix = "/-/"
)

func isProbe(path string) bool { return strings.HasPrefix(path, probePrefix) }

// serverInstruments are the per-route HTTP server metrics.
type serverInstruments struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
	degraded metric.Int64Counter
}

func newServerInstruments(meter metric.Meter) (*serverInstruments, error) {
	var (
		si   serverInstruments
		errs [4]error
	)

	si.duration, errs[0] = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time to serve a request"), metric.WithUnit("s"))
	si.requests, errs[1] = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Requests served, by route and status"))
	si.inFlight, errs[2] = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests being served"))
	si.degraded, errs[3] = meter.Int64Counter("http.server.degraded_responses",
		metric.WithDescription("Responses served with fallback content"))

	if err := errors.Join(errs[:]...); err != nil {
		return nil, err
	}

	return &si, nil
}

// Middleware records request metrics for API routes, echoes the trace ID in
// HeaderTraceID and adds it to the request logger. Probes under /-/ pass
// through untouched. Install it after TracingMiddleware.
func Middleware() gin.HandlerFunc {
	si, err := newServerInstruments(otel.Meter(instrumentationName))
	if err != nil {
		// The middleware keeps tagging traces without metrics.
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			id := sc.TraceID().String()
			c.Header(HeaderTraceID, id)

			ctx = logging.WithTraceID(ctx, id)
			c.Request = c.Request.WithContext(ctx)
		}

		if si == nil {
			c.Next()
			return
		}

		start := time.Now()
		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.method", c.Request.Method)

		si.inFlight.Add(ctx, 1, metric.WithAttributes(method, route))
		defer si.inFlight.Add(ctx, -1, metric.WithAttributes(method, route))

		c.Next()

		done := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
		si.duration.Record(ctx, time.Since(start).Seconds(), done)
		si.requests.Add(ctx, 1, done)

		if reason := c.GetString(DegradedKey); reason != "" {
			si.degraded.Add(ctx, 1, metric.WithAttributes(route, attribute.String("reason", reason)))
		}
	}
}

// TracingMiddleware starts a server span per request, skipping probes.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !isProbe(r.URL.Path)
	}))
}
