// Package clients is the outbound HTTP layer shared by the quote API client
// and the reminder webhook.
package clients

import "errors"

// Transport-level failures. The acl package turns them into domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the call without contacting the service.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt has been used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
