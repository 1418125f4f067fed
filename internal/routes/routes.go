package routes

import (
	"careerhub/server/internal/handlers"
	"careerhub/server/internal/middleware"
	"careerhub/server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the handlers and token issuer the routes are bound to
type Dependencies struct {
	Messages    *handlers.MessageHandler
	Attachments *handlers.AttachmentHandler
	Tokens      *utils.TokenIssuer
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, deps Dependencies) {
	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "CareerHub messaging API is running",
		})
	})

	auth := middleware.AuthMiddleware(deps.Tokens)

	// Message routes (protected)
	messages := api.Group("/messages", auth)
	messages.Get("/conversations", middleware.RelaxedRateLimiter(), deps.Messages.GetConversations)
	messages.Put("/conversations/:counterpartId/read", middleware.ModerateRateLimiter(), deps.Messages.MarkConversationRead)
	messages.Get("/unread", middleware.RelaxedRateLimiter(), deps.Messages.GetUnreadTotal)
	messages.Post("/", middleware.ModerateRateLimiter(), middleware.SendRateLimiter(), deps.Messages.SendMessage)
	messages.Get("/with/:counterpartId", middleware.RelaxedRateLimiter(), deps.Messages.GetMessages)
	messages.Put("/:messageId/read", middleware.ModerateRateLimiter(), deps.Messages.MarkMessageRead)

	// Attachment routes
	api.Post("/attachments", auth, middleware.UploadRateLimiter(), deps.Attachments.UploadAttachment)
	app.Get("/attachments/:filename", deps.Attachments.GetAttachment)
}
