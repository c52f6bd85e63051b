package middleware

import (
	"furniture-inventory/metrics"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency labeled by route template.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "/" && r.Path != "" {
			route = r.Path
		}

		metrics.ObserveRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
