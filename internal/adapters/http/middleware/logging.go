package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/telemetry"
)

// Logging writes an access log line per request through the request-scoped
// logger, falling back to logger. A trace-level line marks the start.
// Probes under /-/ and skipPaths are not logged.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skipped := func(path string) bool {
		if strings.HasPrefix(path, "/-/") {
			return true
		}

		for _, p := range skipPaths {
			if p == path {
				return true
			}
		}

		return false
	}

	return func(c *gin.Context) {
		if skipped(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := logging.FromContextOr(ctx, logger)
		target := c.Request.URL.RequestURI()
		start := time.Now()

		log.Log(ctx, logging.LevelTrace, "request started",
			slog.String("method", c.Request.Method),
			slog.String("path", target),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", target),
			slog.Int("status", status),
			slog.Duration("latency", elapsed),
			slog.Int64("latency_ms", elapsed.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		}

		if reason := c.GetString(telemetry.DegradedKey); reason != "" {
			attrs = append(attrs, slog.String("degraded", reason))
		}

		log.LogAttrs(ctx, accessLevel(status), "request completed", attrs...)
	}
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
