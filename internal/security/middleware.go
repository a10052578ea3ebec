package security

import (
	"github.com/gofiber/fiber/v2"
)

// APIKeyGuard checks X-API-Key against the configured key. An empty key
// disables the guard so a local simulation runs without credentials.
func APIKeyGuard(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey != "" && c.Get("X-API-Key") != apiKey {
			return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}
