package file

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

var (
	_ ports.KeyValueStore = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := New(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return s, path
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("", nil)

	require.Error(t, err)
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	_, path := newTestStore(t)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_MissingDocumentIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "k")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, s.Set(ctx, "theme", "light"))
	require.NoError(t, s.Set(ctx, "language", "en"))

	reopened, err := New(path, nil)
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	var doc map[string]string
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]string{"theme": "light", "language": "en"}, doc)
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	for range 5 {
		require.NoError(t, s.Set(ctx, "k", "v"))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestStore_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, _, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding state document")

	// A write replaces the unreadable document.
	require.NoError(t, s.Set(ctx, "k", "v"))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStore_NullDocument(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	require.NoError(t, s.Set(ctx, "k", "v"))

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestStore_InvalidateRereadsDocument(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	require.NoError(t, s.Set(ctx, "k", "v1"))

	require.NoError(t, os.WriteFile(path, []byte(`{"k":"v2"}`), 0o600))

	v, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "v1", v, "cached value until invalidated")

	s.Invalidate()

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestStore_WatchPicksUpExternalEdits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, path := newTestStore(t)
	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`{"k":"external"}`), 0o600))

	assert.Eventually(t, func() bool {
		v, _, err := s.Get(ctx, "k")
		return err == nil && v == "external"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := newTestStore(t)

	assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
}

func TestStore_Check(t *testing.T) {
	s, path := newTestStore(t)

	assert.Equal(t, "storage", s.Name())
	require.NoError(t, s.Check(context.Background()))

	require.NoError(t, os.RemoveAll(filepath.Dir(path)))
	assert.Error(t, s.Check(context.Background()))
}
