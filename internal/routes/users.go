package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tipjar-labs/tipjar/internal/profile"
)

// RegisterUserRoutes mounts the profile endpoints used by tip pages. Writes go through
// the supplied rate limiter.
func RegisterUserRoutes(api fiber.Router, h *profile.Handler, writeLimit fiber.Handler) {
	users := api.Group("/users")
	users.Get("/:handle", h.Get)
	users.Post("/:handle/walletUpdate", writeLimit, h.UpdateWallet)
	users.Post("/:handle/updateStats", writeLimit, h.UpdateStats)
}
