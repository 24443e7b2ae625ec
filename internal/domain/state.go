package domain

import "slices"

// Theme is the color scheme preference.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is applied when no valid theme is persisted.
const DefaultTheme = ThemeDark

// ParseTheme converts a raw string into a Theme.
// Returns a ValidationError for values outside the enum.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", NewValidationErrorWithValue("theme", "must be one of: dark light", s)
	}

	return t, nil
}

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Language is the UI language preference.
type Language string

// Supported languages.
const (
	LanguagePortuguese Language = "pt"
	LanguageEnglish    Language = "en"
	LanguageJapanese   Language = "ja"
)

// DefaultLanguage is applied when no valid language is persisted.
const DefaultLanguage = LanguagePortuguese

// ParseLanguage converts a raw string into a Language.
// Returns a ValidationError for values outside the enum.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", NewValidationErrorWithValue("language", "must be one of: pt en ja", s)
	}

	return l, nil
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguagePortuguese, LanguageEnglish, LanguageJapanese:
		return true
	default:
		return false
	}
}

// AppState is the single process-wide record of user preferences and favorites.
//
// Favorites are kept in insertion order with the most recent favorite last,
// and never contain two quotes with the same ID.
type AppState struct {
	Theme             Theme    `json:"theme"`
	Language          Language `json:"language"`
	HasSeenOnboarding bool     `json:"hasSeenOnboarding"`
	Favorites         []Quote  `json:"favorites"`
}

// DefaultAppState returns the state of a first run with no persisted data.
func DefaultAppState() AppState {
	return AppState{
		Theme:             DefaultTheme,
		Language:          DefaultLanguage,
		HasSeenOnboarding: false,
		Favorites:         []Quote{},
	}
}

// Clone returns a deep copy safe to hand outside the store.
func (s AppState) Clone() AppState {
	s.Favorites = slices.Clone(s.Favorites)
	if s.Favorites == nil {
		s.Favorites = []Quote{}
	}

	return s
}

// IsFavorite reports whether a favorite with the given ID exists.
func (s AppState) IsFavorite(id int) bool {
	return slices.ContainsFunc(s.Favorites, func(q Quote) bool { return q.ID == id })
}

// DedupeFavorites returns favorites with later duplicates of an ID dropped.
// The first occurrence of each ID wins and order is preserved.
func DedupeFavorites(favorites []Quote) []Quote {
	seen := make(map[int]struct{}, len(favorites))
	out := make([]Quote, 0, len(favorites))

	for _, q := range favorites {
		if _, dup := seen[q.ID]; dup {
			continue
		}

		seen[q.ID] = struct{}{}
		out = append(out, q)
	}

	return out
}
