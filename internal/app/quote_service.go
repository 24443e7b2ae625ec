// Package app contains application services that orchestrate use cases.
// Services depend on port interfaces, not concrete implementations.
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Storage queries (that's storage adapters)
//   - Core domain rules (that's the domain layer)
package app

import (
	"context"
	"log/slog"

	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

// QuoteService fetches quotes and applies the degradation contract:
// callers always receive something displayable, plus the error that
// explains why it is degraded.
type QuoteService struct {
	source ports.QuoteSource
	logger *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Source ports.QuoteSource
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Source is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Source == nil {
		panic("QuoteService: Source is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		source: cfg.Source,
		logger: logger.With(slog.String("component", "app.QuoteService")),
	}
}

// RandomQuote returns a random quote. On any failure it returns the
// fallback quote together with the error.
func (s *QuoteService) RandomQuote(ctx context.Context) (domain.Quote, error) {
	logger := s.loggerFor(ctx)
	logger.DebugContext(ctx, "fetching random quote")

	quote, err := s.source.GetRandomQuote(ctx)
	if err != nil {
		logger.WarnContext(ctx, "random quote unavailable, using fallback", slog.Any("error", err))
		return domain.FallbackQuote(), err
	}

	logger.InfoContext(ctx, "fetched random quote",
		slog.Int("quote_id", quote.ID),
		slog.String("category", quote.Category),
	)

	return *quote, nil
}

// ListQuotes returns the quotes of a category, or all quotes for
// domain.CategoryAll and the empty category. On failure it returns an
// empty, non-nil slice together with the error.
func (s *QuoteService) ListQuotes(ctx context.Context, category string) ([]domain.Quote, error) {
	logger := s.loggerFor(ctx).With(slog.String("category", category))

	var (
		quotes []domain.Quote
		err    error
	)

	if category == "" || category == domain.CategoryAll {
		quotes, err = s.source.ListQuotes(ctx)
	} else {
		quotes, err = s.source.ListQuotesByCategory(ctx, category)
	}

	if err != nil {
		logger.WarnContext(ctx, "quote list unavailable, using empty list", slog.Any("error", err))
		return []domain.Quote{}, err
	}

	if quotes == nil {
		quotes = []domain.Quote{}
	}

	logger.DebugContext(ctx, "fetched quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// Categories lists the categories a user can browse, led by domain.CategoryAll.
func (s *QuoteService) Categories() []string {
	return domain.KnownCategories()
}

func (s *QuoteService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}
