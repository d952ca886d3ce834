package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/upkook/cx-metrics/internal/interfaces/http/handlers"
	"github.com/upkook/cx-metrics/internal/interfaces/http/middleware"
)

// SetupRoutes registers the public survey routes and, for each survey type,
// the member routes under /api/v1/<type>
func SetupRoutes(app *fiber.App, h *handlers.Handlers, authMiddleware fiber.Handler, surveyTypes []string) {
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(etag.New())

	app.Get("/health", handlers.Health)

	groups := middleware.SetupRouteGroups(app, authMiddleware)

	// Survey identities of the member's business
	groups.V1.Get("/surveys", groups.Auth, h.Survey.ListSurveys)

	// Respondent routes
	groups.V1.Get("/surveys/:uuid", h.Survey.GetPublicSurvey)
	groups.V1.Post("/surveys/:uuid/responses", h.Response.Respond)

	groups.Member("/defaults").Get("/:survey_type", h.DefaultOption.List)

	for _, surveyType := range surveyTypes {
		typed := groups.Member("/" + strings.ToLower(surveyType))
		typed.Post("/", h.Survey.Create(surveyType))
		typed.Get("/", h.Survey.List(surveyType))
		typed.Get("/:uuid", h.Survey.Get(surveyType))
		typed.Put("/:uuid", h.Survey.Update(surveyType))
		typed.Delete("/:uuid", h.Survey.Delete(surveyType))
		typed.Get("/:uuid/insights", h.Insight.Get(surveyType))
	}
}
