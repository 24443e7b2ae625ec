package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
)

// GetTraceID returns the request's trace ID, or "" when it is not traced.
func GetTraceID(c *gin.Context) string {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if !sc.HasTraceID() {
		return ""
	}

	return sc.TraceID().String()
}

// send writes resp stamped with the trace ID. abort also stops the chain.
func send(c *gin.Context, status int, resp *ErrorResponse, abort bool) {
	resp = resp.WithTraceID(GetTraceID(c))

	if abort {
		c.AbortWithStatusJSON(status, resp)
		return
	}

	c.JSON(status, resp)
}

// HandleError answers with the envelope for a domain error. Unclassified
// errors are logged in full and sent masked.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)

	if status == http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "internal error", slog.Any("error", err))
	}

	send(c, status, resp, false)
}

// HandleBindError answers 400 for a BindAndValidate failure, listing the
// offending fields when the validator named them.
func HandleBindError(c *gin.Context, err error) {
	switch {
	case IsValidationError(err):
		RespondWithValidationErrors(c, ValidationErrors(err))
	case errors.Is(err, ErrBinding):
		RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request body")
	default:
		RespondWithErrorCode(c, ErrorCodeBadRequest, err.Error())
	}
}

// RespondWithErrorCode answers with an adapter-level error code.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	send(c, HTTPStatusFromCode(code), NewErrorResponse(code, message), false)
}

func RespondWithValidationErrors(c *gin.Context, fields map[string]string) {
	send(c, http.StatusBadRequest,
		NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fields), false)
}

// AbortWithErrorCode is RespondWithErrorCode for middleware: it also stops
// the handler chain.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	send(c, HTTPStatusFromCode(code), NewErrorResponse(code, message), true)
}
