// Package storage selects the key-value backend for persisted app state.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/storage/file"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/storage/memory"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/storage/sqlstore"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/config"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

// Backend is an opened key-value store together with its health check.
type Backend interface {
	ports.KeyValueStore
	ports.HealthChecker
}

// Open creates the backend named by cfg.Driver. The returned close function
// releases its resources and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "memory":
		return memory.New(), noop, nil

	case "file":
		store, err := file.New(cfg.Path, logger)
		if err != nil {
			return nil, noop, err
		}

		if cfg.WatchChanges {
			if err := store.Watch(ctx); err != nil {
				logger.WarnContext(ctx, "state document changes will not be picked up",
					slog.Any("error", err))
			}
		}

		return store, noop, nil

	case sqlstore.DriverSQLite, sqlstore.DriverPostgres, sqlstore.DriverMySQL:
		store, err := sqlstore.Open(ctx, sqlstore.Config{
			Driver:       cfg.Driver,
			DSN:          cfg.DSN,
			Path:         cfg.Path,
			Table:        cfg.Table,
			MaxOpenConns: cfg.MaxOpenConns,
			ConnTimeout:  cfg.ConnTimeout,
		}, logger)
		if err != nil {
			return nil, noop, err
		}

		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
