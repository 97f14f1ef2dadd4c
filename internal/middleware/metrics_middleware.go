package middleware

import (
	"strconv"
	"time"

	"go-warehouse-inventory/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count, latency and in-flight requests. Routes are
// labelled by their pattern so ids do not explode the label set.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.RequestInFlight.Inc()
		defer metrics.RequestInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		labels := []string{c.Method(), route, strconv.Itoa(status)}
		metrics.RequestTotal.WithLabelValues(labels...).Inc()
		metrics.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
