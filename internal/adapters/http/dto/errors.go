// Package dto holds the HTTP error envelope, request binding and the
// helpers handlers use to answer with either.
package dto

import (
	"errors"
	"net/http"

	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the machine code, a message and optional per-field details.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeForbidden   = "FORBIDDEN"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeBadRequest  = "BAD_REQUEST"
)

var codeStatus = map[string]int{
	ErrorCodeNotFound:    http.StatusNotFound,
	ErrorCodeValidation:  http.StatusBadRequest,
	ErrorCodeBadRequest:  http.StatusBadRequest,
	ErrorCodeForbidden:   http.StatusForbidden,
	ErrorCodeUnavailable: http.StatusServiceUnavailable,
	ErrorCodeTimeout:     http.StatusGatewayTimeout,
	ErrorCodeInternal:    http.StatusInternalServerError,
}

// NewErrorResponse builds an envelope without details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return NewErrorResponseWithDetails(code, message, nil)
}

// NewErrorResponseWithDetails builds an envelope with per-field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID and returns e.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode returns the status for an error code. Unknown codes are 500.
func HTTPStatusFromCode(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// MapDomainError translates err into a status and envelope. Errors that are
// not domain errors become a 500 whose message hides the cause.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	code := codeFor(err)
	if code == ErrorCodeInternal {
		return http.StatusInternalServerError, NewErrorResponse(code, "an internal error occurred")
	}

	resp := NewErrorResponse(code, err.Error())

	var invalid *domain.ValidationError
	if errors.As(err, &invalid) && invalid.Field != "" {
		resp.Error.Details = map[string]string{invalid.Field: invalid.Message}
	}

	return HTTPStatusFromCode(code), resp
}

func codeFor(err error) string {
	switch {
	case domain.IsNotFound(err):
		return ErrorCodeNotFound
	case domain.IsValidation(err):
		return ErrorCodeValidation
	case domain.IsForbidden(err):
		return ErrorCodeForbidden
	case domain.IsUnavailable(err):
		return ErrorCodeUnavailable
	default:
		return ErrorCodeInternal
	}
}
