package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/dto"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/telemetry"
)

// Notice keys, resolved in the user's stored language.
const (
	noticeRandomFallback    = "notice.random_fallback"
	noticeQuotesUnavailable = "notice.quotes_unavailable"
	noticePermissionDenied  = "notice.permission_denied"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service  *app.QuoteService
	catalog  *app.QuoteCatalog
	filter   *app.QuoteFilter
	state    *app.StateStore
	messages app.Translator
}

// QuoteHandlerConfig contains the dependencies of a QuoteHandler.
type QuoteHandlerConfig struct {
	Service  *app.QuoteService
	Catalog  *app.QuoteCatalog
	State    *app.StateStore
	Messages app.Translator
}

// NewQuoteHandler creates a new quote handler. A nil Catalog gets a fresh one.
func NewQuoteHandler(cfg QuoteHandlerConfig) *QuoteHandler {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = app.NewQuoteCatalog()
	}

	return &QuoteHandler{
		service:  cfg.Service,
		catalog:  catalog,
		filter:   app.NewQuoteFilter(catalog),
		state:    cfg.State,
		messages: cfg.Messages,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID       int    `json:"id"`
	Quote    string `json:"quote"`
	Source   string `json:"source,omitempty"`
	Context  string `json:"context,omitempty"`
	Category string `json:"category"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:       q.ID,
		Quote:    q.Quote,
		Source:   q.Source,
		Context:  q.Context,
		Category: q.Category,
	}
}

func toQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toQuoteResponse(q))
	}

	return out
}

// RandomQuoteResponse carries one quote and whether it is a favorite.
type RandomQuoteResponse struct {
	Quote    QuoteResponse `json:"quote"`
	Favorite bool          `json:"favorite"`
	Notice   string        `json:"notice,omitempty"`
}

// QuoteListResponse is the filtered view of the catalog.
type QuoteListResponse struct {
	Category string          `json:"category"`
	Query    string          `json:"query,omitempty"`
	Count    int             `json:"count"`
	Quotes   []QuoteResponse `json:"quotes"`
	Notice   string          `json:"notice,omitempty"`
}

// CategoriesResponse lists the browsable categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// listQuotesQuery holds the query parameters of GET /api/v1/quotes.
type listQuotesQuery struct {
	Category string `form:"category" json:"category" validate:"omitempty,max=64"`
	Query    string `form:"q"        json:"q"        validate:"omitempty,max=200"`
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Never fails: when the quote service is unreachable the fallback quote is
// returned with a localized notice.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} RandomQuoteResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	quote, err := h.service.RandomQuote(c.Request.Context())

	resp := RandomQuoteResponse{
		Quote:    toQuoteResponse(quote),
		Favorite: h.state.IsFavorite(quote.ID),
	}

	if err != nil {
		c.Set(telemetry.DegradedKey, "random_fallback")
		resp.Notice = h.notice(noticeRandomFallback)
	}

	c.JSON(http.StatusOK, resp)
}

// ListQuotes handles GET /api/v1/quotes?category=&q=
// Fetches the category into the catalog, then filters that fetch by q. A
// failed fetch yields an empty list with a localized notice.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param category query string false "Category, defaults to all"
// @Param q query string false "Case-insensitive text search"
// @Success 200 {object} QuoteListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var query listQuotesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	category := strings.TrimSpace(query.Category)
	if category == "" {
		category = domain.CategoryAll
	}

	ticket := h.catalog.Begin()
	quotes, err := h.service.ListQuotes(c.Request.Context(), category)

	// Each response is built from its own fetch. A newer fetch may already
	// own the catalog, in which case this one bypasses the memo.
	var visible []domain.Quote
	if revision, current := h.catalog.Commit(ticket, category, quotes); current {
		visible = h.filter.At(revision, quotes, category, query.Query)
	} else {
		visible = app.FilterQuotes(quotes, category, query.Query)
	}

	resp := QuoteListResponse{
		Category: category,
		Query:    query.Query,
		Count:    len(visible),
		Quotes:   toQuoteResponses(visible),
	}

	if err != nil {
		c.Set(telemetry.DegradedKey, "quotes_unavailable")
		resp.Notice = h.notice(noticeQuotesUnavailable)
	}

	c.JSON(http.StatusOK, resp)
}

// GetCategories handles GET /api/v1/quotes/categories
//
// @Summary List quote categories
// @Tags quotes
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /api/v1/quotes/categories [get]
func (h *QuoteHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{Categories: h.service.Categories()})
}

func (h *QuoteHandler) notice(key string) string {
	return localize(h.messages, h.state, key)
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/categories", h.GetCategories)
}

// localize resolves key in the language the user picked.
func localize(messages app.Translator, state *app.StateStore, key string) string {
	return messages.T(string(state.Language()), key)
}
