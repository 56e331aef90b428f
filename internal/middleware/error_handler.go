package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ErrorResponse writes the JSON error body shared by every non-2xx response.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  status,
		"error":   utils.StatusMessage(status),
		"message": message,
	})
}

// ErrorHandler renders errors returned by handlers and middleware. Errors that are not
// *fiber.Error are logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse(c, fiberErr.Code, fiberErr.Message)
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return ErrorResponse(c, fiber.StatusInternalServerError, "An internal error occurred")
}
