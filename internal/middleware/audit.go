package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Audit logs one line per request. Profile routes add the handle they touched, and
// responses served from the idempotency store are marked as replays.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", time.Since(start)),
		}
		if requestID := RequestIDFrom(c); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		// Params reflect the last route matched below this middleware.
		if handle := c.Params("handle"); handle != "" {
			attrs = append(attrs, slog.String("handle", handle))
		}
		if replayed, _ := c.Locals(idempotentReplayLocal).(bool); replayed {
			attrs = append(attrs, slog.Bool("idempotent_replay", true))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			logger.Error("request completed", attrs...)
			return err
		}

		logger.Info("request completed", attrs...)
		return nil
	}
}
