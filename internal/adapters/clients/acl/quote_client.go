package acl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/clients"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
)

// QuoteServiceName identifies the quote API in errors, logs and health checks.
const QuoteServiceName = "quote-service"

const (
	randomQuotePath  = "/quote"
	quotesPath       = "/quotes"
	quotesByCategory = "/quotes/category/"
)

// QuoteClientConfig configures a QuoteClient.
type QuoteClientConfig struct {
	// Client must point at the quote API root (".../api").
	Client *clients.Client
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteSource against the Sasuke quotes API.
// It is also an optional health check.
type QuoteClient struct {
	gw     Gateway
	logger *slog.Logger
}

// NewQuoteClient panics without a Client.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		gw:     NewGateway(cfg.Client, QuoteServiceName),
		logger: logger.With(slog.String("component", "acl.QuoteClient")),
	}
}

// wireQuote is one quote as the API sends it.
type wireQuote struct {
	ID       int    `json:"id"`
	Quote    string `json:"quote"`
	Source   string `json:"source"`
	Context  string `json:"context"`
	Category string `json:"category"`
}

type wireQuoteList struct {
	Quotes []wireQuote `json:"quotes"`
}

func (w wireQuote) toDomain() (domain.Quote, error) {
	q := domain.Quote{
		ID:       w.ID,
		Quote:    w.Quote,
		Source:   w.Source,
		Context:  w.Context,
		Category: w.Category,
	}

	return q, q.Validate()
}

// GetRandomQuote fetches a quote chosen by the remote service.
func (c *QuoteClient) GetRandomQuote(ctx context.Context) (*domain.Quote, error) {
	c.logger.Log(ctx, logging.LevelTrace, "fetching random quote")

	body, err := c.gw.Get(ctx, randomQuotePath, "get random quote", "")
	if err != nil {
		return nil, err
	}

	wire, err := decode[wireQuote](body)
	if err != nil {
		return nil, err
	}

	q, err := wire.toDomain()
	if err != nil {
		return nil, err
	}

	return &q, nil
}

// ListQuotes fetches the whole catalog.
func (c *QuoteClient) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	return c.list(ctx, quotesPath, "list quotes", "")
}

// ListQuotesByCategory fetches quotes of one category. The label is
// path-escaped, so spaces and slashes are safe.
func (c *QuoteClient) ListQuotesByCategory(ctx context.Context, category string) ([]domain.Quote, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.NewValidationError("category", "is required")
	}

	return c.list(ctx, quotesByCategory+url.PathEscape(category), "list quotes by category", category)
}

func (c *QuoteClient) list(ctx context.Context, path, op, entity string) ([]domain.Quote, error) {
	body, err := c.gw.Get(ctx, path, op, entity)
	if err != nil {
		return nil, err
	}

	wire, err := decode[wireQuoteList](body)
	if err != nil {
		return nil, err
	}

	quotes := translateAll(wire.Quotes, wireQuote.toDomain, func(i int, err error) {
		c.logger.WarnContext(ctx, "skipping invalid quote record",
			slog.String("path", path),
			slog.Int("record", i),
			slog.Any("error", err))
	})

	c.logger.Log(ctx, logging.LevelTrace, "quotes received",
		slog.String("path", path),
		slog.Int("count", len(quotes)))

	return quotes, nil
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return QuoteServiceName
}

// Optional reports true: while the API is down quotes degrade to the
// built-in fallback and the service stays ready.
func (c *QuoteClient) Optional() bool {
	return true
}

// Check asks the random-quote endpoint for an answer.
func (c *QuoteClient) Check(ctx context.Context) error {
	body, err := c.gw.Get(ctx, randomQuotePath, "health check", "")
	if err != nil {
		return err
	}

	return body.Close()
}
