package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/upkook/cx-metrics/internal/application/usecases"
	"github.com/upkook/cx-metrics/internal/interfaces/http/middleware"
)

type InsightHandler struct {
	insightUseCase *usecases.InsightUseCase
}

func NewInsightHandler(insightUseCase *usecases.InsightUseCase) *InsightHandler {
	return &InsightHandler{insightUseCase: insightUseCase}
}

func (h *InsightHandler) Get(surveyType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "uuid")
		if err != nil {
			return respondError(c, err)
		}
		projection, err := h.insightUseCase.Insights(c.UserContext(), middleware.BusinessID(c), surveyType, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(projection)
	}
}
