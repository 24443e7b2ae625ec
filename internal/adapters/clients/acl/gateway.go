package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

// Gateway sends requests to one downstream service and maps failed
// responses to domain errors.
type Gateway struct {
	client  *clients.Client
	service string
}

// NewGateway wraps client for service.
func NewGateway(client *clients.Client, service string) Gateway {
	return Gateway{client: client, service: service}
}

// Service returns the downstream name used in errors.
func (g Gateway) Service() string { return g.service }

// Client returns the wrapped HTTP client.
func (g Gateway) Client() *clients.Client { return g.client }

// Get fetches path and returns the body of a 2xx answer. entity names the
// requested item in a NotFoundError.
func (g Gateway) Get(ctx context.Context, path, op, entity string) (io.ReadCloser, error) {
	resp, err := g.client.Get(ctx, path)
	return g.accept(resp, err, op, entity)
}

// Post sends a JSON body to path and returns the body of a 2xx answer.
func (g Gateway) Post(ctx context.Context, path string, body io.Reader, op string) (io.ReadCloser, error) {
	resp, err := g.client.Post(ctx, path, body)
	return g.accept(resp, err, op, "")
}

func (g Gateway) accept(resp *http.Response, err error, op, entity string) (io.ReadCloser, error) {
	if err != nil {
		return nil, g.failure(op, entity, nil, err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()
		return nil, g.failure(op, entity, resp, nil)
	}

	return resp.Body, nil
}

func (g Gateway) failure(op, entity string, resp *http.Response, err error) error {
	return toDomainError(failure{service: g.service, op: op, entity: entity, resp: resp, err: err})
}

// decode reads one JSON document from body and closes it. A body that does
// not decode is reported as a validation error on "response".
func decode[T any](body io.ReadCloser) (T, error) {
	var out T

	if body == nil {
		return out, domain.NewValidationError("response", "body is empty")
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return out, domain.NewValidationError("response", fmt.Sprintf("undecodable body: %v", err))
	}

	return out, nil
}

// translateAll converts every record. Records that fail translation are
// left out and reported to skip with their index.
func translateAll[E, D any](records []E, translate func(E) (D, error), skip func(int, error)) []D {
	out := make([]D, 0, len(records))

	for i, r := range records {
		d, err := translate(r)
		if err != nil {
			if skip != nil {
				skip(i, err)
			}

			continue
		}

		out = append(out, d)
	}

	return out
}
