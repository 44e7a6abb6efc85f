package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/logging"
)

// RequestLogger must run after echo's RequestID middleware so the id is on the
// response header.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With(
				"method", req.Method,
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			)
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			dur := time.Since(start)
			status := c.Response().Status

			switch {
			case err != nil && status >= 500:
				l.Error("request_completed", "route", c.Path(), "status", status, "duration_ms", dur.Milliseconds(), "error", err)
			case status >= 500:
				l.Error("request_completed", "route", c.Path(), "status", status, "duration_ms", dur.Milliseconds())
			case status >= 400:
				l.Warn("request_completed", "route", c.Path(), "status", status, "duration_ms", dur.Milliseconds())
			default:
				l.Info("request_completed", "route", c.Path(), "status", status, "duration_ms", dur.Milliseconds(), "bytes", c.Response().Size)
			}
			return nil
		}
	}
}
