package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter creates a rate limiting middleware keyed by caller
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   expiration,
		KeyGenerator: callerKey,
		LimitReached: limitReached,
	})
}

// RecipientRateLimiter throttles how many messages one caller may send to the
// same receiver, so a single coach or seeker cannot flood one inbox while
// still messaging others.
func RecipientRateLimiter(max int, expiration time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			var target struct {
				ReceiverID string `json:"receiverId"`
			}
			// A malformed body is rejected by the handler; key it by caller only
			_ = c.BodyParser(&target)
			return callerKey(c) + "->" + target.ReceiverID
		},
		LimitReached: limitReached,
	})
}

// Use user ID if authenticated, otherwise use IP
func callerKey(c *fiber.Ctx) string {
	if userID := GetUserID(c); userID != "" {
		return userID
	}
	return c.IP()
}

func limitReached(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"success": false,
		"error":   "Too many requests, please try again later",
	})
}

// SendRateLimiter caps messages per caller and receiver pair
func SendRateLimiter() fiber.Handler {
	return RecipientRateLimiter(10, 1*time.Minute) // 10 messages per receiver per minute
}

// ModerateRateLimiter for message writes
func ModerateRateLimiter() fiber.Handler {
	return RateLimiter(30, 1*time.Minute) // 30 requests per minute
}

// RelaxedRateLimiter for conversation and thread reads
func RelaxedRateLimiter() fiber.Handler {
	return RateLimiter(100, 1*time.Minute) // 100 requests per minute
}

// UploadRateLimiter for attachment uploads
func UploadRateLimiter() fiber.Handler {
	return RateLimiter(10, 5*time.Minute) // 10 uploads per 5 minutes
}
