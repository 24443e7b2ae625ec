// Command service runs the Sasuke quotes backend: the HTTP API, the daily
// reminder scheduler and the persisted app state.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients/acl"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/handlers"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/scheduler"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/storage"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/config"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/i18n"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/telemetry"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
// Commit and BuildTime fall back to the VCS stamp of the binary.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// teardown runs cleanup steps in reverse registration order.
type teardown []func(context.Context) error

func (t *teardown) add(fn func(context.Context) error) { *t = append(*t, fn) }

func (t teardown) run(ctx context.Context) error {
	var errs []error
	for i := len(t) - 1; i >= 0; i-- {
		errs = append(errs, t[i](ctx))
	}

	return errors.Join(errs...)
}

func run(ctx context.Context) (err error) {
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("profile", profile),
		slog.String("storage", cfg.Storage.Driver),
	)

	var cleanup teardown
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		if cerr := cleanup.run(ctx); cerr != nil {
			logger.Error("cleanup failed", slog.Any("error", cerr))
			err = errors.Join(err, cerr)
		}
	}()

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}

	cleanup.add(tel.Shutdown)

	routes, err := wire(ctx, cfg, logger, &cleanup)
	if err != nil {
		return err
	}

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), routes)

	serveErr, err := server.Start()
	if err != nil {
		return err
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("draining server: %w", err)
	}

	logger.Info("server stopped")

	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	f := cfg.Log.File

	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    f.Enabled,
			Path:       f.Path,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
}

// wire builds storage, the quote source, the scheduler and the services on
// top of them, and returns the router configuration serving them.
func wire(ctx context.Context, cfg *config.Config, logger *slog.Logger, cleanup *teardown) (http.RouterConfig, error) {
	messages, err := i18n.Load()
	if err != nil {
		return http.RouterConfig{}, fmt.Errorf("loading message catalogs: %w", err)
	}

	backend, closeStore, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return http.RouterConfig{}, fmt.Errorf("opening storage: %w", err)
	}

	cleanup.add(func(context.Context) error { return closeStore() })

	state := app.NewStateStore(app.StateStoreConfig{Store: backend, Logger: logger})
	state.Load(ctx)

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return http.RouterConfig{}, fmt.Errorf("creating quote API client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: httpClient, Logger: logger})
	quotes := app.NewQuoteService(app.QuoteServiceConfig{Source: quoteClient, Logger: logger})

	health := ports.NewHealthRegistry()
	for _, c := range []ports.HealthChecker{backend, quoteClient} {
		if err := health.Register(c); err != nil {
			return http.RouterConfig{}, fmt.Errorf("registering health check: %w", err)
		}
	}

	sched, err := newScheduler(cfg, logger)
	if err != nil {
		return http.RouterConfig{}, err
	}

	sched.Start()
	cleanup.add(sched.Stop)

	reminders := app.NewReminderService(app.ReminderServiceConfig{
		Quotes:    quotes,
		Scheduler: sched,
		Store:     backend,
		State:     state,
		Messages:  messages,
		Logger:    logger,
	})

	if _, err := reminders.Restore(ctx); err != nil {
		logger.Warn("daily reminder not restored", slog.Any("error", err))
	}

	return http.RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(health, handlers.NewBuildInfo(Version, Commit, BuildTime)),
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
		Timeout: http.DefaultRequestTimeout,
	}, nil
}

// newScheduler builds the reminder scheduler in the configured zone. Fired
// reminders go to the webhook when one is configured, to the log otherwise.
func newScheduler(cfg *config.Config, logger *slog.Logger) (*scheduler.CronScheduler, error) {
	loc, err := scheduler.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		return nil, fmt.Errorf("reminder timezone: %w", err)
	}

	var deliverer scheduler.Deliverer = scheduler.LogDeliverer{Logger: logger}

	if cfg.Reminder.WebhookURL != "" {
		webhook, err := scheduler.NewWebhookDeliverer(cfg.Reminder.WebhookURL, cfg.Reminder.WebhookToken, cfg.Client, logger)
		if err != nil {
			return nil, fmt.Errorf("creating reminder webhook: %w", err)
		}

		deliverer = webhook
	}

	s, err := scheduler.New(scheduler.Config{
		Location:          loc,
		Deliverer:         deliverer,
		Logger:            logger,
		DenyNotifications: cfg.Reminder.NotificationsDenied,
	})
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	return s, nil
}
