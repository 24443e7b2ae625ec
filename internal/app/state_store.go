package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

// Storage keys. Each preference lives under its own key.
const (
	KeyTheme      = "@sasuke_app:theme"
	KeyLanguage   = "@sasuke_app:language"
	KeyFavorites  = "@sasuke_app:favorites"
	KeyOnboarding = "@sasuke_app:onboarding_complete"
)

var persistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sasuke_state_persist_failures_total",
	Help: "App state writes that failed and were kept in memory only.",
}, []string{"key"})

// StateStore is the single owner of the user's preferences and favorites.
//
// Every mutation updates memory first and then writes the affected key.
// A failed write is logged and counted but never reported to the caller:
// the in-memory state stays authoritative for the life of the process.
type StateStore struct {
	kv     ports.KeyValueStore
	logger *slog.Logger

	mu    sync.RWMutex
	state domain.AppState
}

// StateStoreConfig contains the dependencies of a StateStore.
type StateStoreConfig struct {
	Store  ports.KeyValueStore
	Logger *slog.Logger
}

// NewStateStore creates a store holding default state. Call Load to read
// persisted values. Panics if Store is nil.
func NewStateStore(cfg StateStoreConfig) *StateStore {
	if cfg.Store == nil {
		panic("StateStore: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StateStore{
		kv:     cfg.Store,
		logger: logger.With(slog.String("component", "app.StateStore")),
		state:  domain.DefaultAppState(),
	}
}

// storedValue is one key read from the key-value store.
type storedValue struct {
	value string
	ok    bool
}

// Load reads the four keys concurrently and replaces the in-memory state.
// Each field is parsed on its own: a missing, unreadable or malformed value
// falls back to that field's default without affecting the others.
func (s *StateStore) Load(ctx context.Context) domain.AppState {
	logger := logging.FromContextOr(ctx, s.logger)
	keys := []string{KeyTheme, KeyLanguage, KeyFavorites, KeyOnboarding}

	fns := make([]func(context.Context) (storedValue, error), 0, len(keys))
	for _, key := range keys {
		fns = append(fns, func(ctx context.Context) (storedValue, error) {
			v, ok, err := s.kv.Get(ctx, key)
			return storedValue{value: v, ok: ok}, err
		})
	}

	results := SettleAll(ctx, fns...)

	for i, r := range results {
		if r.Err != nil {
			logger.WarnContext(ctx, "failed to read persisted state, using default",
				slog.String("key", keys[i]),
				slog.Any("error", r.Err))
		}
	}

	state := domain.DefaultAppState()
	state.Theme = parseStoredTheme(ctx, logger, results[0])
	state.Language = parseStoredLanguage(ctx, logger, results[1])
	state.Favorites = parseStoredFavorites(ctx, logger, results[2])
	state.HasSeenOnboarding = parseStoredOnboarding(ctx, logger, results[3])

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	logger.InfoContext(ctx, "app state loaded",
		slog.String("theme", string(state.Theme)),
		slog.String("language", string(state.Language)),
		slog.Int("favorites", len(state.Favorites)),
		slog.Bool("onboarding_complete", state.HasSeenOnboarding))

	return state.Clone()
}

func parseStoredTheme(ctx context.Context, logger *slog.Logger, r Settled[storedValue]) domain.Theme {
	if r.Err != nil || !r.Value.ok {
		return domain.DefaultTheme
	}

	theme, err := domain.ParseTheme(r.Value.value)
	if err != nil {
		logger.WarnContext(ctx, "ignoring persisted theme", slog.String("key", KeyTheme), slog.Any("error", err))
		return domain.DefaultTheme
	}

	return theme
}

func parseStoredLanguage(ctx context.Context, logger *slog.Logger, r Settled[storedValue]) domain.Language {
	if r.Err != nil || !r.Value.ok {
		return domain.DefaultLanguage
	}

	lang, err := domain.ParseLanguage(r.Value.value)
	if err != nil {
		logger.WarnContext(ctx, "ignoring persisted language", slog.String("key", KeyLanguage), slog.Any("error", err))
		return domain.DefaultLanguage
	}

	return lang
}

func parseStoredFavorites(ctx context.Context, logger *slog.Logger, r Settled[storedValue]) []domain.Quote {
	if r.Err != nil || !r.Value.ok {
		return []domain.Quote{}
	}

	var favorites []domain.Quote
	if err := json.Unmarshal([]byte(r.Value.value), &favorites); err != nil {
		logger.WarnContext(ctx, "ignoring persisted favorites", slog.String("key", KeyFavorites), slog.Any("error", err))
		return []domain.Quote{}
	}

	deduped := domain.DedupeFavorites(favorites)
	if len(deduped) != len(favorites) {
		logger.WarnContext(ctx, "dropped duplicate favorites",
			slog.Int("stored", len(favorites)),
			slog.Int("kept", len(deduped)))
	}

	return deduped
}

func parseStoredOnboarding(ctx context.Context, logger *slog.Logger, r Settled[storedValue]) bool {
	if r.Err != nil || !r.Value.ok {
		return false
	}

	var done bool
	if err := json.Unmarshal([]byte(r.Value.value), &done); err != nil {
		logger.WarnContext(ctx, "ignoring persisted onboarding flag", slog.String("key", KeyOnboarding), slog.Any("error", err))
		return false
	}

	return done
}

// State returns a copy of the current state.
func (s *StateStore) State() domain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}

// Favorites returns a copy of the favorites, oldest first.
func (s *StateStore) Favorites() []domain.Quote {
	return s.State().Favorites
}

// IsFavorite reports whether a quote with id is a favorite.
func (s *StateStore) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.IsFavorite(id)
}

// Language returns the current UI language.
func (s *StateStore) Language() domain.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Language
}

// SetTheme changes the theme. Values outside the enum are rejected with a
// domain.ValidationError and change nothing.
func (s *StateStore) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		_, err := domain.ParseTheme(string(theme))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Theme = theme
	s.persist(ctx, KeyTheme, string(theme))

	return nil
}

// SetLanguage changes the UI language. Values outside the enum are rejected
// with a domain.ValidationError and change nothing.
func (s *StateStore) SetLanguage(ctx context.Context, lang domain.Language) error {
	if !lang.Valid() {
		_, err := domain.ParseLanguage(string(lang))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Language = lang
	s.persist(ctx, KeyLanguage, string(lang))

	return nil
}

// AddFavorite appends quote unless a favorite with the same ID exists.
// It reports whether the quote was added.
func (s *StateStore) AddFavorite(ctx context.Context, quote domain.Quote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addLocked(ctx, quote)
}

// RemoveFavorite removes the favorite with id and reports whether one existed.
// The collection is written even when nothing was removed.
func (s *StateStore) RemoveFavorite(ctx context.Context, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(ctx, id)
}

// ToggleFavorite removes quote when it is a favorite and adds it otherwise.
// It reports whether the quote is a favorite afterwards.
func (s *StateStore) ToggleFavorite(ctx context.Context, quote domain.Quote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsFavorite(quote.ID) {
		s.removeLocked(ctx, quote.ID)
		return false
	}

	return s.addLocked(ctx, quote)
}

func (s *StateStore) addLocked(ctx context.Context, quote domain.Quote) bool {
	if s.state.IsFavorite(quote.ID) {
		return false
	}

	s.state.Favorites = append(slices.Clip(s.state.Favorites), quote)
	s.persistFavoritesLocked(ctx)

	return true
}

func (s *StateStore) removeLocked(ctx context.Context, id int) bool {
	before := len(s.state.Favorites)
	s.state.Favorites = slices.DeleteFunc(slices.Clone(s.state.Favorites), func(q domain.Quote) bool {
		return q.ID == id
	})
	s.persistFavoritesLocked(ctx)

	return len(s.state.Favorites) != before
}

// MarkOnboardingComplete records that the onboarding flow was seen.
// The flag never returns to false.
func (s *StateStore) MarkOnboardingComplete(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.HasSeenOnboarding = true
	s.persist(ctx, KeyOnboarding, strconv.FormatBool(true))
}

func (s *StateStore) persistFavoritesLocked(ctx context.Context) {
	data, err := json.Marshal(s.state.Favorites)
	if err != nil {
		s.recordFailure(ctx, KeyFavorites, fmt.Errorf("encoding favorites: %w", err))
		return
	}

	s.persist(ctx, KeyFavorites, string(data))
}

// persist writes one key. Callers hold s.mu so writes land in mutation order.
func (s *StateStore) persist(ctx context.Context, key, value string) {
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.recordFailure(ctx, key, err)
	}
}

func (s *StateStore) recordFailure(ctx context.Context, key string, err error) {
	persistFailures.WithLabelValues(key).Inc()
	logging.FromContextOr(ctx, s.logger).ErrorContext(ctx, "failed to persist app state, keeping it in memory",
		slog.String("key", key),
		slog.Any("error", err))
}
