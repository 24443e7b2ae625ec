package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/handlers"
	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/middleware"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/config"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds every /api/v1 request.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig lists the handlers to mount. Nil handlers are skipped.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	HealthHandler    *handlers.HealthHandler
	QuoteHandler     *handlers.QuoteHandler
	StateHandler     *handlers.StateHandler
	FavoritesHandler *handlers.FavoritesHandler
	ReminderHandler  *handlers.ReminderHandler

	// Timeout is the deadline put on every /api/v1 request. Zero disables it.
	Timeout time.Duration
}

// SetupRouter installs the global middleware chain and mounts the probes
// under /-/ and the API under /api/v1.
//
// The chain runs recovery first so it covers everything after it, then the
// request and correlation IDs, tracing and metrics, and the access log last
// so its lines carry every ID. Only /api/v1 gets the request deadline.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		api.Use(middleware.Timeout(cfg.Timeout))
	}

	if h := cfg.QuoteHandler; h != nil {
		h.RegisterQuoteRoutes(api)
	}

	if h := cfg.StateHandler; h != nil {
		h.RegisterStateRoutes(api)
	}

	if h := cfg.FavoritesHandler; h != nil {
		h.RegisterFavoritesRoutes(api)
	}

	if h := cfg.ReminderHandler; h != nil {
		h.RegisterReminderRoutes(api)
	}
}
