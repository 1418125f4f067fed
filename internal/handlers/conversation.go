package handlers

import (
	"careerhub/server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetConversations returns the caller's conversations, most recent first
func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	conversations, err := h.service.ListConversations(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    conversations,
	})
}

// MarkConversationRead marks everything the counterpart sent to the caller as read
func (h *MessageHandler) MarkConversationRead(c *fiber.Ctx) error {
	count, err := h.service.MarkConversationRead(c.UserContext(), middleware.GetUserID(c), c.Params("counterpartId"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Messages marked as read",
		"data": fiber.Map{
			"updatedCount": count,
		},
	})
}

// GetUnreadTotal returns the number of unread messages across all conversations
func (h *MessageHandler) GetUnreadTotal(c *fiber.Ctx) error {
	total, err := h.service.UnreadTotal(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"unreadCount": total,
		},
	})
}
