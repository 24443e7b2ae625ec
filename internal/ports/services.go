// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"time"

	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

// QuoteSource is the remote catalog of quotes.
// Adapters translate the upstream wire format into domain.Quote.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map transport failures to domain.ErrUnavailable
//   - Undecodable bodies are reported as domain.ErrValidation
type QuoteSource interface {
	// GetRandomQuote retrieves one quote chosen by the remote service.
	GetRandomQuote(ctx context.Context) (*domain.Quote, error)

	// ListQuotes retrieves the full collection.
	ListQuotes(ctx context.Context) ([]domain.Quote, error)

	// ListQuotesByCategory retrieves quotes carrying the given category.
	ListQuotesByCategory(ctx context.Context, category string) ([]domain.Quote, error)
}

// KeyValueStore is a string-keyed, string-valued durable store.
// The app state store keeps one entry per preference.
type KeyValueStore interface {
	// Get returns the value for key. ok is false when the key was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Notification is the content shown to the user when a reminder fires.
type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// DailyTrigger fires once a day at Hour:Minute in the scheduler's time zone.
type DailyTrigger struct {
	Hour   int
	Minute int
}

// ScheduledNotification describes a pending recurring notification.
type ScheduledNotification struct {
	ID           string       `json:"id"`
	Notification Notification `json:"notification"`
	Trigger      DailyTrigger `json:"trigger"`
	NextRun      time.Time    `json:"nextRun"`
}

// NotificationScheduler schedules recurring local notifications.
type NotificationScheduler interface {
	// Schedule registers a notification that repeats daily at trigger.
	// Returns a domain.PermissionDeniedError when notifications are not permitted.
	Schedule(ctx context.Context, n Notification, trigger DailyTrigger) (string, error)

	// CancelAll removes every scheduled notification.
	CancelAll(ctx context.Context) error

	// Scheduled lists pending notifications.
	Scheduled() []ScheduledNotification
}
