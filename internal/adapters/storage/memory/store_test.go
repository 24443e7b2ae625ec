package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

var (
	_ ports.KeyValueStore = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Set(ctx, "k", "v2"))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()

	assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)

	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "k", "v"))

	snap := s.Snapshot()
	snap["k"] = "changed"

	v, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "v", v)
}

func TestStore_Health(t *testing.T) {
	s := New()

	assert.Equal(t, "storage", s.Name())
	assert.NoError(t, s.Check(context.Background()))
}
