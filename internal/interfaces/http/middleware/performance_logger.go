package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PerformanceLogger logs method, matched route, status and duration of the
// requests under the given prefixes. Requests slower than slow are tagged.
func PerformanceLogger(slow time.Duration, prefixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !monitored(c.Path(), prefixes) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		tag := "[PERFORMANCE]"
		if slow > 0 && duration > slow {
			tag = "[PERFORMANCE][SLOW]"
		}
		log.Printf("%s %s %s - %d - %v", tag, c.Method(), c.Route().Path, c.Response().StatusCode(), duration)
		return err
	}
}

func monitored(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
