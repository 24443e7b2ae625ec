// Package sqlstore persists key-value pairs in a single SQL table.
// SQLite, PostgreSQL and MySQL share the same two-column layout.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"  // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// Config contains connection settings for Open.
type Config struct {
	Driver       string
	DSN          string
	Path         string
	Table        string
	MaxOpenConns int
	ConnTimeout  time.Duration
}

// Store is a SQL-backed key-value store. It satisfies
// ports.KeyValueStore and ports.HealthChecker.
type Store struct {
	db      *sql.DB
	dialect Dialect
	stmts   statements
	timeout time.Duration
	logger  *slog.Logger
}

// Open connects to the configured database, verifies the connection and
// creates the table if it does not exist.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", dialect.Name, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	db.SetConnMaxIdleTime(30 * time.Minute)

	s, err := New(db, dialect, cfg.Table, cfg.ConnTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := s.Check(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", dialect.Name, err)
	}

	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.InfoContext(ctx, "connected to state database", slog.String("table", cfg.Table))

	return s, nil
}

func dataSourceName(cfg Config) (string, error) {
	if cfg.Driver != DriverSQLite {
		if cfg.DSN == "" {
			return "", fmt.Errorf("%s: dsn is required", cfg.Driver)
		}

		return cfg.DSN, nil
	}

	if cfg.Path == "" {
		return "", errors.New("sqlite: path is required")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("sqlite mkdir: %w", err)
		}
	}

	return cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
}

// New wraps an open database. The table is not created; call Migrate.
// A zero timeout leaves deadlines to the caller's context.
func New(db *sql.DB, dialect Dialect, table string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	stmts, err := dialect.statements(table)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		db:      db,
		dialect: dialect,
		stmts:   stmts,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "storage.sql"), slog.String("driver", dialect.Name)),
	}, nil
}

// Migrate creates the key-value table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.stmts.schema); err != nil {
		return fmt.Errorf("%s schema: %w", s.dialect.Name, err)
	}

	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var value string

	err := s.db.QueryRowContext(ctx, s.stmts.query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}

	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.stmts.upsert, key, value); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}

	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.timeout)
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "storage" }

// Check implements ports.HealthChecker by pinging the database.
func (s *Store) Check(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
