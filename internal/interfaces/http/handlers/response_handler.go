package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/upkook/cx-metrics/internal/application/usecases"
	"github.com/upkook/cx-metrics/internal/config"
)

type ResponseHandler struct {
	responseUseCase *usecases.ResponseUseCase
	cookie          config.CookieConfig
}

func NewResponseHandler(responseUseCase *usecases.ResponseUseCase, cookie config.CookieConfig) *ResponseHandler {
	return &ResponseHandler{
		responseUseCase: responseUseCase,
		cookie:          cookie,
	}
}

// Respond records a response. The client id comes from the body, or from the
// client-id cookie when the body has none, and the cookie is refreshed when it changes.
func (h *ResponseHandler) Respond(c *fiber.Ctx) error {
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return respondError(c, err)
	}

	var in usecases.ResponseInput
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	cookieClientID := c.Cookies(h.cookie.Name)
	if in.Customer.ClientID == "" {
		in.Customer.ClientID = cookieClientID
	}
	in.UserAgent = c.Get(fiber.HeaderUserAgent)

	ack, err := h.responseUseCase.Respond(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if ack == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	if ack.ClientID != cookieClientID {
		c.Cookie(&fiber.Cookie{
			Name:     h.cookie.Name,
			Value:    ack.ClientID,
			MaxAge:   int(h.cookie.MaxAge.Seconds()),
			Domain:   h.cookie.Domain,
			Path:     "/",
			Secure:   h.cookie.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(ack)
}
