package handlers

import (
	"strconv"

	"careerhub/server/internal/messaging"
	"careerhub/server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SendMessage sends a direct message
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	var req messaging.SendCommand
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	message, err := h.service.Send(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    message,
	})
}

// GetMessages returns message history between the caller and another user
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	var limit *int
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "limit must be an integer",
			})
		}
		limit = &parsed
	}

	messages, err := h.service.ListMessages(c.UserContext(), middleware.GetUserID(c), c.Params("counterpartId"), limit)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"messages": messages,
			"count":    len(messages),
		},
	})
}

// MarkMessageRead marks a single received message as read
func (h *MessageHandler) MarkMessageRead(c *fiber.Ctx) error {
	id, err := h.service.MarkMessageRead(c.UserContext(), middleware.GetUserID(c), c.Params("messageId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id": id,
		},
	})
}
