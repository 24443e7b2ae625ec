//go:build integration

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/storage"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/config"
)

// backendConfigs returns the on-disk backends that can run without external services.
func backendConfigs(t *testing.T) map[string]config.StorageConfig {
	t.Helper()

	dir := t.TempDir()

	return map[string]config.StorageConfig{
		"file": {
			Driver:      "file",
			Path:        filepath.Join(dir, "state.json"),
			Table:       "kv_entries",
			ConnTimeout: time.Second,
		},
		"sqlite": {
			Driver:       "sqlite",
			Path:         filepath.Join(dir, "state.db"),
			Table:        "kv_entries",
			MaxOpenConns: 1,
			ConnTimeout:  time.Second,
		},
	}
}

// openState opens the backend and loads a fresh StateStore over it.
func openState(t *testing.T, cfg config.StorageConfig) (*app.StateStore, func()) {
	t.Helper()

	ctx := context.Background()

	backend, closeStore, err := storage.Open(ctx, cfg, discardLogger())
	require.NoError(t, err)

	state := app.NewStateStore(app.StateStoreConfig{Store: backend, Logger: discardLogger()})
	state.Load(ctx)

	return state, func() { require.NoError(t, closeStore()) }
}

func TestStateStore_RoundTripAcrossRestarts(t *testing.T) {
	for name, cfg := range backendConfigs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			state, closeFirst := openState(t, cfg)
			assert.Equal(t, domain.DefaultAppState().Theme, state.State().Theme)

			require.NoError(t, state.SetTheme(ctx, domain.ThemeLight))
			require.NoError(t, state.SetLanguage(ctx, domain.LanguageEnglish))
			state.AddFavorite(ctx, domain.Quote{ID: 2, Quote: "b"})
			state.AddFavorite(ctx, domain.Quote{ID: 1, Quote: "a"})
			state.AddFavorite(ctx, domain.Quote{ID: 2, Quote: "b"})
			state.RemoveFavorite(ctx, 1)
			state.MarkOnboardingComplete(ctx)
			closeFirst()

			reopened, closeSecond := openState(t, cfg)
			defer closeSecond()

			got := reopened.State()
			assert.Equal(t, domain.ThemeLight, got.Theme)
			assert.Equal(t, domain.LanguageEnglish, got.Language)
			assert.True(t, got.HasSeenOnboarding)
			require.Len(t, got.Favorites, 1)
			assert.Equal(t, 2, got.Favorites[0].ID)
		})
	}
}

func TestStateStore_ConcurrentFavorites(t *testing.T) {
	for name, cfg := range backendConfigs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			state, closeFirst := openState(t, cfg)

			const writers = 20

			var wg sync.WaitGroup
			for i := range writers {
				wg.Add(1)

				go func() {
					defer wg.Done()

					q := domain.Quote{ID: i % 10, Quote: fmt.Sprintf("quote %d", i%10)}
					state.AddFavorite(ctx, q)
				}()
			}
			wg.Wait()

			assert.Len(t, state.Favorites(), 10)
			closeFirst()

			reopened, closeSecond := openState(t, cfg)
			defer closeSecond()

			assert.Len(t, reopened.Favorites(), 10, "persisted list matches memory")
		})
	}
}
