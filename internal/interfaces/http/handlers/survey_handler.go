package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/upkook/cx-metrics/internal/application/usecases"
	"github.com/upkook/cx-metrics/internal/interfaces/http/middleware"
)

// SurveyHandler serves survey management for business members and the public survey read
type SurveyHandler struct {
	surveyUseCase *usecases.SurveyUseCase
}

func NewSurveyHandler(surveyUseCase *usecases.SurveyUseCase) *SurveyHandler {
	return &SurveyHandler{
		surveyUseCase: surveyUseCase,
	}
}

// GetPublicSurvey renders an active survey for respondents
func (h *SurveyHandler) GetPublicSurvey(c *fiber.Ctx) error {
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return respondError(c, err)
	}
	rep, err := h.surveyUseCase.PublicSurvey(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rep)
}

// ListSurveys lists the identity records of every survey of the member's business
func (h *SurveyHandler) ListSurveys(c *fiber.Ctx) error {
	surveys, err := h.surveyUseCase.ListSurveys(c.UserContext(), middleware.BusinessID(c), c.Query("ordering"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(surveys)
}

func (h *SurveyHandler) Create(surveyType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.SurveyInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		view, err := h.surveyUseCase.Create(c.UserContext(), middleware.BusinessID(c), surveyType, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

func (h *SurveyHandler) List(surveyType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := h.surveyUseCase.List(c.UserContext(), middleware.BusinessID(c), surveyType, c.Query("ordering"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(views)
	}
}

func (h *SurveyHandler) Get(surveyType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "uuid")
		if err != nil {
			return respondError(c, err)
		}
		view, err := h.surveyUseCase.Get(c.UserContext(), middleware.BusinessID(c), surveyType, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(view)
	}
}

func (h *SurveyHandler) Update(surveyType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "uuid")
		if err != nil {
			return respondError(c, err)
		}
		var in usecases.SurveyInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		view, err := h.surveyUseCase.Update(c.UserContext(), middleware.BusinessID(c), surveyType, id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(view)
	}
}

func (h *SurveyHandler) Delete(surveyType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "uuid")
		if err != nil {
			return respondError(c, err)
		}
		if err := h.surveyUseCase.Delete(c.UserContext(), middleware.BusinessID(c), surveyType, id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
