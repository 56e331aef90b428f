package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// RequireContentType is a Fiber middleware rejecting requests whose Content-Type header is
// missing or differs from contentType. Both cases answer 415.
func RequireContentType(contentType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(fiber.HeaderContentType)
		if got == "" {
			log.Printf("No Content-Type specified on %s %s", c.Method(), c.Path())
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be "+contentType)
		}
		if got != contentType {
			log.Printf("Invalid Content-Type: %s", got)
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be "+contentType)
		}
		return c.Next()
	}
}
