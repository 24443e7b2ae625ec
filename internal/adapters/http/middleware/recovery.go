package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/dto"
	"github.com/Augusto240/sasuke-quotes-app/internal/platform/logging"
)

// Recovery converts a handler panic into a logged error and, if nothing has
// been written yet, a masked 500 envelope. Install it first.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				onPanic(c, logger, r)
			}
		}()

		c.Next()
	}
}

func onPanic(c *gin.Context, logger *slog.Logger, r any) {
	ctx := c.Request.Context()

	logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered",
		slog.Any("error", r),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	if c.Writer.Written() {
		c.Abort()
		return
	}

	dto.AbortWithErrorCode(c, dto.ErrorCodeInternal, "an internal error occurred")
}
