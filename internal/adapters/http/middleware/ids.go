// Package middleware holds the gin middleware chain of the API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
)

// Headers carrying the per-request and cross-service identifiers.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// Keys under which the IDs are stored in the gin context.
const (
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

// maxInboundIDLen bounds caller-supplied IDs; longer or non-printable values
// are replaced with a fresh UUID.
const maxInboundIDLen = 128

type ctxKey int

const (
	requestIDKey ctxKey = iota
	correlationIDKey
)

// idKind describes one identifier the API accepts, echoes and forwards.
type idKind struct {
	header  string
	ginKey  string
	ctxKey  ctxKey
	logWith func(context.Context, string) context.Context
}

var (
	requestIDKind     = idKind{HeaderRequestID, ContextKeyRequestID, requestIDKey, logging.WithRequestID}
	correlationIDKind = idKind{HeaderCorrelationID, ContextKeyCorrelationID, correlationIDKey, logging.WithCorrelationID}
)

// RequestID accepts X-Request-ID from the caller or generates a UUID, echoes
// it on the response and stores it for handlers, the request logger and
// outbound calls.
func RequestID() gin.HandlerFunc { return requestIDKind.middleware() }

// CorrelationID does the same for X-Correlation-ID, which spans every
// request of one user action rather than a single call.
func CorrelationID() gin.HandlerFunc { return correlationIDKind.middleware() }

func (k idKind) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(k.ginKey, id)
		c.Header(k.header, id)

		ctx := context.WithValue(c.Request.Context(), k.ctxKey, id)
		c.Request = c.Request.WithContext(k.logWith(ctx, id))

		c.Next()
	}
}

func acceptableID(id string) bool {
	if id == "" || len(id) > maxInboundIDLen {
		return false
	}

	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string { return c.GetString(ContextKeyRequestID) }

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string { return c.GetString(ContextKeyCorrelationID) }

// RequestIDFromContext returns the request ID carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string { return idFrom(ctx, requestIDKey) }

// CorrelationIDFromContext returns the correlation ID carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string { return idFrom(ctx, correlationIDKey) }

// ContextWithRequestID returns ctx carrying a request ID. Background jobs use
// it to label outbound calls that no HTTP request started.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID returns ctx carrying a correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func idFrom(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
