// Package domain contains core business entities and rules.
package domain

import "strings"

// CategoryAll is the sentinel category that selects every quote.
const CategoryAll = "all"

// FallbackQuoteID is the ID of the only quote ever created client-side.
const FallbackQuoteID = 0

// Quote represents a single attributed quotation.
// This is a domain entity - it has no knowledge of external systems.
// Quotes are immutable once fetched.
type Quote struct {
	// ID is the unique identifier for this quote.
	ID int `json:"id"`

	// Quote is the text of the quotation.
	Quote string `json:"quote"`

	// Source is the optional attribution (episode, chapter, speaker).
	Source string `json:"source,omitempty"`

	// Context optionally describes the situation the quote was said in.
	Context string `json:"context,omitempty"`

	// Category is a coarse label (story arc or era) used for filtering.
	Category string `json:"category"`
}

// FallbackQuote returns the record substituted when a random quote cannot be fetched.
func FallbackQuote() Quote {
	return Quote{
		ID:       FallbackQuoteID,
		Quote:    "Falha ao carregar citação. Sem ódio, sem poder.",
		Source:   "Desconhecido",
		Context:  "Erro de conexão ou servidor",
		Category: "Erro",
	}
}

// IsFallback reports whether q is the client-side fallback record.
func (q Quote) IsFallback() bool {
	return q.ID == FallbackQuoteID
}

// Validate checks the invariants a quote must satisfy before it is stored.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.Quote) == "" {
		return NewValidationError("quote", "is required")
	}

	if q.ID < 0 {
		return NewValidationErrorWithValue("id", "must not be negative", q.ID)
	}

	return nil
}

// Matches reports whether q passes the category and free-text selection.
// The query must already be lower-cased; an empty query matches everything.
func (q Quote) Matches(category, lowerQuery string) bool {
	if category != CategoryAll && q.Category != category {
		return false
	}

	if lowerQuery == "" {
		return true
	}

	return strings.Contains(strings.ToLower(q.Quote), lowerQuery) ||
		strings.Contains(strings.ToLower(q.Source), lowerQuery) ||
		strings.Contains(strings.ToLower(q.Context), lowerQuery)
}

// KnownCategories lists the categories offered by the quote source,
// led by the CategoryAll sentinel.
func KnownCategories() []string {
	return []string{CategoryAll, "Genin", "Shippuden", "Flashback"}
}
