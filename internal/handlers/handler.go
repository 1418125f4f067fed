package handlers

import (
	"errors"
	"log/slog"

	"careerhub/server/internal/messaging"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler exposes the messaging service over HTTP
type MessageHandler struct {
	service *messaging.Service
	log     *slog.Logger
}

func NewMessageHandler(service *messaging.Service, log *slog.Logger) *MessageHandler {
	return &MessageHandler{service: service, log: log}
}

// fail writes the error envelope matching err's kind
func (h *MessageHandler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, messaging.ErrNotRecipient):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, messaging.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, messaging.ErrValidation):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, messaging.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	default:
		h.log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
