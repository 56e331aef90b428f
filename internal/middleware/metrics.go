package middleware

import (
	"strconv"
	"time"

	"catalog/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route template.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		m.ObserveRequest(c.Method(), route, strconv.Itoa(status), time.Since(start))
		return err
	}
}
