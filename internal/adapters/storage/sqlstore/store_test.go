package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

var (
	_ ports.KeyValueStore = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

func setupMockStore(t *testing.T, driver string) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dialect, err := DialectFor(driver)
	require.NoError(t, err)

	s, err := New(db, dialect, "kv_entries", time.Second, nil)
	require.NoError(t, err)

	return s, mock
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver     string
		driverName string
		wantErr    bool
	}{
		{DriverSQLite, "sqlite", false},
		{DriverPostgres, "pgx", false},
		{DriverMySQL, "mysql", false},
		{"oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := DialectFor(tt.driver)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported storage driver")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.driverName, d.DriverName)
		})
	}
}

func TestNew_RejectsInvalidTableNames(t *testing.T) {
	dialect, err := DialectFor(DriverSQLite)
	require.NoError(t, err)

	for _, table := range []string{"", "1abc", "kv; DROP TABLE users", "kv-entries", "kv entries"} {
		_, err := New(nil, dialect, table, 0, nil)
		assert.Error(t, err, table)
	}
}

func TestStore_Get(t *testing.T) {
	s, mock := setupMockStore(t, DriverPostgres)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT entry_value FROM kv_entries WHERE entry_key = $1`)).
		WithArgs("@sasuke_app:theme").
		WillReturnRows(sqlmock.NewRows([]string{"entry_value"}).AddRow("light"))

	v, ok, err := s.Get(context.Background(), "@sasuke_app:theme")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetMissing(t *testing.T) {
	s, mock := setupMockStore(t, DriverMySQL)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT entry_value FROM kv_entries WHERE entry_key = ?`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := s.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetError(t *testing.T) {
	s, mock := setupMockStore(t, DriverSQLite)

	mock.ExpectQuery("SELECT entry_value").WillReturnError(errors.New("connection reset"))

	_, _, err := s.Get(context.Background(), "k")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `reading "k"`)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStore_SetUsesDialectUpsert(t *testing.T) {
	tests := []struct {
		driver string
		query  string
	}{
		{DriverSQLite, `INSERT INTO kv_entries (entry_key, entry_value) VALUES (?, ?) ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value`},
		{DriverPostgres, `INSERT INTO kv_entries (entry_key, entry_value) VALUES ($1, $2) ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value`},
		{DriverMySQL, `INSERT INTO kv_entries (entry_key, entry_value) VALUES (?, ?) ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value)`},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, mock := setupMockStore(t, tt.driver)

			mock.ExpectExec(regexp.QuoteMeta(tt.query)).
				WithArgs("k", "v").
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, s.Set(context.Background(), "k", "v"))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_SetError(t *testing.T) {
	s, mock := setupMockStore(t, DriverPostgres)

	mock.ExpectExec("INSERT INTO kv_entries").WillReturnError(errors.New("read-only transaction"))

	err := s.Set(context.Background(), "k", "v")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `writing "k"`)
}

func TestStore_Migrate(t *testing.T) {
	s, mock := setupMockStore(t, DriverMySQL)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv_entries")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Check(t *testing.T) {
	s, mock := setupMockStore(t, DriverPostgres)

	mock.ExpectPing()
	require.NoError(t, s.Check(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, s.Check(context.Background()))

	assert.Equal(t, "storage", s.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: DriverPostgres, Table: "kv_entries"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn is required")
}

func TestOpen_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Driver:       DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "db", "state.db"),
		Table:        "kv_entries",
		MaxOpenConns: 2,
		ConnTimeout:  5 * time.Second,
	}

	s, err := Open(ctx, cfg, nil)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "@sasuke_app:favorites", `[{"id":1}]`))
	require.NoError(t, s.Set(ctx, "@sasuke_app:favorites", `[{"id":1},{"id":2}]`))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, ok, err := reopened.Get(ctx, "@sasuke_app:favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1},{"id":2}]`, v)

	_, ok, err = reopened.Get(ctx, "@sasuke_app:theme")
	require.NoError(t, err)
	assert.False(t, ok)
}
