package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/errs"
)

// respondError maps domain errors to status codes and response bodies
func respondError(c *fiber.Ctx, err error) error {
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(verr.Messages())
	}
	if errors.Is(err, errs.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// ErrorHandler renders errors that escaped a handler, such as middleware rejections
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

// uuidParam parses a uuid route parameter; malformed values are reported as not found
func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errs.ErrNotFound
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errs.NonField("JSON parse error - " + err.Error())
	}
	return nil
}
