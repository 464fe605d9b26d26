package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vitalshub/vitalshub/internal/platform/auth"
)

// Logger emits one line per request. Authenticated calls carry the
// caller's id and role, so questions like "which nurse hit the triage
// queue at 3am" can be answered from the request log alone.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			// Re-read the request: the auth middleware swaps in a
			// context carrying the caller's identity.
			req := c.Request()
			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())
			if id := auth.UserIDFromContext(req.Context()); id != uuid.Nil {
				evt.Str("user_id", id.String()).Str("role", auth.RoleFromContext(req.Context()))
			}
			evt.Msg("request")

			return err
		}
	}
}
