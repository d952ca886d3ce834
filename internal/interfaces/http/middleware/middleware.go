package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupMiddlewares(app *fiber.App, allowedOrigins []string) {
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOrigins, ", "),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	app.Use(PerformanceLogger(time.Second, "/api/v1"))
}

// RouteGroups exposes /api/v1 and the authentication applied to business member routes
type RouteGroups struct {
	V1   fiber.Router
	Auth fiber.Handler
}

func SetupRouteGroups(app *fiber.App, authMiddleware fiber.Handler) RouteGroups {
	return RouteGroups{
		V1:   app.Group("/api/v1"),
		Auth: authMiddleware,
	}
}

// Member returns a group under /api/v1 whose routes require authentication.
// Public routes must live outside every member prefix.
func (g RouteGroups) Member(prefix string) fiber.Router {
	return g.V1.Group(prefix, g.Auth)
}
