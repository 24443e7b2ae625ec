package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

// maxErrorBody caps how much of an error response is read for a message.
const maxErrorBody = 64 << 10

// failure is one failed downstream call: either a transport error or a
// non-2xx response.
type failure struct {
	service string
	op      string
	entity  string
	resp    *http.Response
	err     error
}

// upstreamBody accepts the error shapes seen from JSON APIs:
// {"error":"text"}, {"error":{"code","message","details"}} and {"message":"text"}.
type upstreamBody struct {
	Error   json.RawMessage `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

type upstreamDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// upstreamError is the normalized content of an error body.
type upstreamError struct {
	code    string
	message string
	details map[string]string
}

func readUpstreamError(r io.Reader) upstreamError {
	var raw upstreamBody
	if r == nil || json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&raw) != nil {
		return upstreamError{}
	}

	out := upstreamError{code: raw.Code, message: raw.Message}

	var text string
	var detail upstreamDetail

	switch {
	case json.Unmarshal(raw.Error, &text) == nil:
		if out.message == "" {
			out.message = text
		}
	case json.Unmarshal(raw.Error, &detail) == nil:
		if detail.Code != "" {
			out.code = detail.Code
		}

		if detail.Message != "" {
			out.message = detail.Message
		}

		out.details = detail.Details
	}

	return out
}

// toDomainError maps a failed call onto the domain error classes. Anything
// that means "try again later", including upstream auth rejections and rate
// limits, becomes an UnavailableError so callers degrade instead of failing.
func toDomainError(f failure) error {
	if f.err != nil {
		switch {
		case errors.Is(f.err, clients.ErrCircuitOpen):
			return domain.NewUnavailableError(f.service, "circuit breaker open during "+f.op)
		case errors.Is(f.err, clients.ErrMaxRetriesExceeded):
			return domain.NewUnavailableError(f.service, "max retries exceeded during "+f.op)
		default:
			return domain.NewUnavailableError(f.service, fmt.Sprintf("%s failed: %v", f.op, f.err))
		}
	}

	if f.resp == nil {
		return domain.NewUnavailableError(f.service, "no response received")
	}

	status := f.resp.StatusCode
	up := readUpstreamError(f.resp.Body)

	message := up.message
	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", f.op, status)
	}

	switch {
	case status == http.StatusNotFound || up.code == "NOT_FOUND":
		return domain.NewNotFoundError(f.service, f.entity)

	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || up.code == "VALIDATION_ERROR":
		for field, msg := range up.details {
			return domain.NewValidationError(field, msg)
		}

		return domain.NewValidationError("", message)

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewUnavailableError(f.service, fmt.Sprintf("%s rejected: %s", f.op, message))

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(f.service, "rate limit exceeded")

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(f.service, message)

	default:
		return domain.NewUnavailableError(f.service, fmt.Sprintf("%s: unexpected status %d", f.op, status))
	}
}
