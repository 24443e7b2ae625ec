package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

// FilterQuotes returns the quotes in category (every quote for
// domain.CategoryAll) whose text, source or context contains query,
// ignoring case. A blank query matches everything. Input order is kept.
func FilterQuotes(quotes []domain.Quote, category, query string) []domain.Quote {
	lowerQuery := normalizeQuery(query)
	out := make([]domain.Quote, 0, len(quotes))

	for _, q := range quotes {
		if q.Matches(category, lowerQuery) {
			out = append(out, q)
		}
	}

	return out
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// FetchTicket identifies one fetch started with QuoteCatalog.Begin.
type FetchTicket uint64

// QuoteCatalog holds the most recently fetched quote collection.
//
// Fetches may complete out of order. Commit only accepts a result whose
// ticket is newer than the last committed one, so a slow response for an
// earlier selection can never overwrite a newer one.
type QuoteCatalog struct {
	mu        sync.RWMutex
	issued    FetchTicket
	committed FetchTicket
	revision  uint64
	category  string
	quotes    []domain.Quote
}

// NewQuoteCatalog creates an empty catalog showing domain.CategoryAll.
func NewQuoteCatalog() *QuoteCatalog {
	return &QuoteCatalog{
		category: domain.CategoryAll,
		quotes:   []domain.Quote{},
	}
}

// Begin issues the ticket for a fetch about to start.
func (c *QuoteCatalog) Begin() FetchTicket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued++

	return c.issued
}

// Commit replaces the collection with quotes fetched for category and
// returns the new revision. It reports false and changes nothing when a
// newer fetch already committed.
func (c *QuoteCatalog) Commit(ticket FetchTicket, category string, quotes []domain.Quote) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket <= c.committed {
		return c.revision, false
	}

	c.committed = ticket
	c.revision++
	c.category = category
	c.quotes = slices.Clone(quotes)

	if c.quotes == nil {
		c.quotes = []domain.Quote{}
	}

	return c.revision, true
}

// Snapshot returns the current collection, the category it was fetched
// for and its revision. The slice must not be modified.
func (c *QuoteCatalog) Snapshot() (quotes []domain.Quote, category string, revision uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.quotes, c.category, c.revision
}

// filterKey identifies one memoized filter result.
type filterKey struct {
	revision uint64
	category string
	query    string
}

// QuoteFilter derives the visible quotes from a catalog and remembers the
// last result. Repeating a lookup with the same catalog revision, category
// and normalized query returns the cached slice without rescanning.
type QuoteFilter struct {
	catalog *QuoteCatalog

	mu     sync.Mutex
	last   filterKey
	result []domain.Quote
	valid  bool
}

// NewQuoteFilter creates a filter over catalog.
func NewQuoteFilter(catalog *QuoteCatalog) *QuoteFilter {
	return &QuoteFilter{catalog: catalog}
}

// Visible returns the catalog quotes matching category and query.
// The returned slice is shared with later identical lookups and must not be modified.
func (f *QuoteFilter) Visible(category, query string) []domain.Quote {
	quotes, _, revision := f.catalog.Snapshot()

	return f.At(revision, quotes, category, query)
}

// At filters quotes, the collection committed as revision, and shares the
// memo with Visible. Callers holding their own committed fetch use it so a
// later commit by someone else cannot change their result.
func (f *QuoteFilter) At(revision uint64, quotes []domain.Quote, category, query string) []domain.Quote {
	key := filterKey{revision: revision, category: category, query: normalizeQuery(query)}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.valid && f.last == key {
		return f.result
	}

	f.result = FilterQuotes(quotes, category, key.query)
	f.last = key
	f.valid = true

	return f.result
}
