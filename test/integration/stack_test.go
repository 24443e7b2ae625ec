//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients/acl"
	apihttp "github.com/Augusto240/sasuke-quotes-app/internal/adapters/http"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/handlers"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/scheduler"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/storage"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/config"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/i18n"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// upstreamQuotes is the catalog served by the fake quote API.
var upstreamQuotes = []map[string]any{
	{"id": 1, "quote": "I have long since closed my eyes", "source": "Ep. 1", "category": "Genin"},
	{"id": 2, "quote": "My only goal is in the future", "context": "Valley of the End", "category": "Shippuden"},
	{"id": 3, "quote": "Hatred is my power", "category": "Shippuden"},
}

// fakeQuoteAPI serves the quote API routes and can be switched off.
type fakeQuoteAPI struct {
	server *httptest.Server
	down   atomic.Bool
}

func newFakeQuoteAPI() *fakeQuoteAPI {
	api := &fakeQuoteAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))

	return api
}

func (a *fakeQuoteAPI) serve(w http.ResponseWriter, r *http.Request) {
	if a.down.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/quote":
		_ = json.NewEncoder(w).Encode(upstreamQuotes[0])

	case r.URL.Path == "/quotes":
		_ = json.NewEncoder(w).Encode(map[string]any{"quotes": upstreamQuotes})

	case strings.HasPrefix(r.URL.Path, "/quotes/category/"):
		category := strings.TrimPrefix(r.URL.Path, "/quotes/category/")

		matched := []map[string]any{}
		for _, q := range upstreamQuotes {
			if q["category"] == category {
				matched = append(matched, q)
			}
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"quotes": matched})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// appStack is one running instance of the service over a given state file.
type appStack struct {
	server     *httptest.Server
	backend    storage.Backend
	closeStore func() error
	scheduler  *scheduler.CronScheduler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startStack wires the service the way cmd/service does, minus telemetry
// export, and serves it on a local listener.
func startStack(ctx context.Context, statePath, quoteURL string) (*appStack, error) {
	logger := discardLogger()

	messages, err := i18n.Load()
	if err != nil {
		return nil, err
	}

	backend, closeStore, err := storage.Open(ctx, config.StorageConfig{
		Driver:      "file",
		Path:        statePath,
		Table:       "kv_entries",
		ConnTimeout: time.Second,
	}, logger)
	if err != nil {
		return nil, err
	}

	state := app.NewStateStore(app.StateStoreConfig{Store: backend, Logger: logger})
	state.Load(ctx)

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     quoteURL,
		ServiceName: acl.QuoteServiceName,
		Timeout:     time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: httpClient, Logger: logger})
	quotes := app.NewQuoteService(app.QuoteServiceConfig{Source: quoteClient, Logger: logger})

	sched, err := scheduler.New(scheduler.Config{
		Location:  time.UTC,
		Deliverer: scheduler.LogDeliverer{Logger: logger},
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	reminders := app.NewReminderService(app.ReminderServiceConfig{
		Quotes:    quotes,
		Scheduler: sched,
		Store:     backend,
		State:     state,
		Messages:  messages,
		Logger:    logger,
	})
	if _, err := reminders.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restoring reminder: %w", err)
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(backend); err != nil {
		return nil, err
	}

	engine := gin.New()
	apihttp.SetupRouter(engine, apihttp.RouterConfig{
		Logger:        logger,
		AppConfig:     &config.AppConfig{Name: "sasuke-quotes", Version: "test", Environment: "test"},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now")),
		QuoteHandler: handlers.NewQuoteHandler(handlers.QuoteHandlerConfig{
			Service:  quotes,
			State:    state,
			Messages: messages,
		}),
		StateHandler:     handlers.NewStateHandler(state),
		FavoritesHandler: handlers.NewFavoritesHandler(state),
		ReminderHandler: handlers.NewReminderHandler(handlers.ReminderHandlerConfig{
			Service:   reminders,
			Scheduler: sched,
			State:     state,
			Messages:  messages,
		}),
		Timeout: 5 * time.Second,
	})

	return &appStack{
		server:     httptest.NewServer(engine),
		backend:    backend,
		closeStore: closeStore,
		scheduler:  sched,
	}, nil
}

func (s *appStack) stop() error {
	s.server.Close()
	return s.closeStore()
}
