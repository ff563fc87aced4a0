package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HTTPObserver recibe una observación por request (metrics.Metrics).
type HTTPObserver interface {
	ObserveHTTP(method, path, status string, elapsed time.Duration)
}

// MetricsMiddleware mide cada request usando el patrón de ruta como label.
func MetricsMiddleware(obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		path := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			path = r.Path
		}
		obs.ObserveHTTP(c.Method(), path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
