package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/upkook/cx-metrics/internal/application/usecases"
	"github.com/upkook/cx-metrics/internal/config"
)

// UseCases groups the application services the HTTP surface depends on
type UseCases struct {
	Surveys        *usecases.SurveyUseCase
	Responses      *usecases.ResponseUseCase
	Insights       *usecases.InsightUseCase
	DefaultOptions *usecases.DefaultOptionUseCase
}

type Handlers struct {
	Survey        *SurveyHandler
	Response      *ResponseHandler
	Insight       *InsightHandler
	DefaultOption *DefaultOptionHandler
}

func NewHandlers(useCases UseCases, cookie config.CookieConfig) *Handlers {
	return &Handlers{
		Survey:        NewSurveyHandler(useCases.Surveys),
		Response:      NewResponseHandler(useCases.Responses, cookie),
		Insight:       NewInsightHandler(useCases.Insights),
		DefaultOption: NewDefaultOptionHandler(useCases.DefaultOptions),
	}
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"version": "1.0.0",
	})
}
