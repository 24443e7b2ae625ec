package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/scheduler"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/storage/memory"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/mocks"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/i18n"
)

// apiFixture wires the API handlers over a mocked quote source, an
// in-memory store and an unstarted cron scheduler.
type apiFixture struct {
	source    *mocks.MockQuoteSource
	kv        *memory.Store
	state     *app.StateStore
	scheduler *scheduler.CronScheduler
	quotes    *QuoteHandler
	router    *gin.Engine
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	bundle, err := i18n.Load()
	require.NoError(t, err)

	f := &apiFixture{
		source: mocks.NewMockQuoteSource(t),
		kv:     memory.New(),
	}

	f.state = app.NewStateStore(app.StateStoreConfig{Store: f.kv, Logger: discardLogger()})

	f.scheduler, err = scheduler.New(scheduler.Config{
		Location:  time.UTC,
		Deliverer: scheduler.LogDeliverer{Logger: discardLogger()},
		Logger:    discardLogger(),
	})
	require.NoError(t, err)

	quotes := app.NewQuoteService(app.QuoteServiceConfig{Source: f.source, Logger: discardLogger()})
	reminders := app.NewReminderService(app.ReminderServiceConfig{
		Quotes:    quotes,
		Scheduler: f.scheduler,
		Store:     f.kv,
		State:     f.state,
		Messages:  bundle,
		Logger:    discardLogger(),
	})

	f.router = gin.New()
	api := f.router.Group("/api/v1")

	f.quotes = NewQuoteHandler(QuoteHandlerConfig{Service: quotes, State: f.state, Messages: bundle})
	f.quotes.RegisterQuoteRoutes(api)
	NewStateHandler(f.state).RegisterStateRoutes(api)
	NewFavoritesHandler(f.state).RegisterFavoritesRoutes(api)
	NewReminderHandler(ReminderHandlerConfig{
		Service:   reminders,
		Scheduler: f.scheduler,
		State:     f.state,
		Messages:  bundle,
	}).RegisterReminderRoutes(api)

	return f
}

func (f *apiFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
