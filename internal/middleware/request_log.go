package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLog writes one structured line per request. Server failures are
// logged with their cause by response.Error, so this line stays at WARN.
func RequestLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		if status >= fiber.StatusBadRequest {
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		}
		if id, ok := c.Locals("requestid").(string); ok {
			attrs = append(attrs, "request_id", id)
		}
		if id, ok := c.Locals("user_id").(string); ok {
			attrs = append(attrs, "user_id", id)
		}
		slog.Log(c.UserContext(), level, "request", attrs...)
		return nil
	}
}
