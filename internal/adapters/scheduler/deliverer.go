package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients/acl"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/config"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

// WebhookServiceName identifies the reminder webhook in logs and traces.
const WebhookServiceName = "reminder-webhook"

// LogDeliverer writes fired notifications to the log.
type LogDeliverer struct {
	Logger *slog.Logger
}

// Deliver implements Deliverer.
func (d LogDeliverer) Deliver(ctx context.Context, n ports.ScheduledNotification) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "reminder fired",
		slog.String("id", n.ID),
		slog.String("title", n.Notification.Title),
		slog.String("body", n.Notification.Body),
		slog.Any("data", n.Notification.Data))

	return nil
}

// webhookPayload is the JSON body posted for each fired reminder.
type webhookPayload struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
	Hour   int               `json:"hour"`
	Minute int               `json:"minute"`
}

// WebhookDeliverer posts fired notifications as JSON to a URL using the
// shared instrumented client.
type WebhookDeliverer struct {
	gateway acl.Gateway
	path    string
}

// NewWebhookDeliverer creates a deliverer for rawURL. A non-empty token is
// sent as a bearer token.
func NewWebhookDeliverer(rawURL, token string, clientCfg config.ClientConfig, logger *slog.Logger) (*WebhookDeliverer, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid webhook url %q", rawURL)
	}

	cfg := &clients.Config{
		BaseURL:     u.Scheme + "://" + u.Host,
		ServiceName: WebhookServiceName,
		Timeout:     clientCfg.Timeout,
		Retry:       clientCfg.Retry,
		Circuit:     clientCfg.CircuitBreaker,
		Transport:   clientCfg.Transport,
		Logger:      logger,
	}

	if token != "" {
		cfg.AuthFunc = func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	client, err := clients.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating webhook client: %w", err)
	}

	return &WebhookDeliverer{
		gateway: acl.NewGateway(client, WebhookServiceName),
		path:    u.RequestURI(),
	}, nil
}

// Deliver implements Deliverer.
func (d *WebhookDeliverer) Deliver(ctx context.Context, n ports.ScheduledNotification) error {
	payload, err := json.Marshal(webhookPayload{
		ID:     n.ID,
		Title:  n.Notification.Title,
		Body:   n.Notification.Body,
		Data:   n.Notification.Data,
		Hour:   n.Trigger.Hour,
		Minute: n.Trigger.Minute,
	})
	if err != nil {
		return fmt.Errorf("encoding reminder: %w", err)
	}

	body, err := d.gateway.Post(ctx, d.path, bytes.NewReader(payload), "deliver reminder")
	if err != nil {
		return err
	}

	return body.Close()
}
