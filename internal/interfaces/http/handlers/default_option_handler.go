package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/upkook/cx-metrics/internal/application/usecases"
	"github.com/upkook/cx-metrics/internal/interfaces/http/middleware"
)

type DefaultOptionHandler struct {
	defaultOptionUseCase *usecases.DefaultOptionUseCase
}

func NewDefaultOptionHandler(defaultOptionUseCase *usecases.DefaultOptionUseCase) *DefaultOptionHandler {
	return &DefaultOptionHandler{defaultOptionUseCase: defaultOptionUseCase}
}

// List returns the default contra options of the member's industry for :survey_type
func (h *DefaultOptionHandler) List(c *fiber.Ctx) error {
	surveyType := usecases.SurveyType(c.Params("survey_type"))
	options, err := h.defaultOptionUseCase.List(c.UserContext(), middleware.BusinessID(c), surveyType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(options)
}
