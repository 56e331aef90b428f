package handlers

import (
	"catalog/web"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler serves the liveness probe and the index page.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterRoutes registers "/" and "/health".
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/", h.HandleIndex)
}

// HandleHealth lets callers know the service is up.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "OK",
	})
}

// HandleIndex serves the embedded administration page.
func (h *HealthHandler) HandleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(web.IndexHTML)
}
