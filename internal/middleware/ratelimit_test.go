package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Post("/messages", func(c *fiber.Ctx) error {
		c.Locals("userID", c.Get("X-User"))
		return c.Next()
	}, handler, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func post(t *testing.T, app *fiber.App, user, receiver string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"receiverId":"`+receiver+`","content":"hi"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("X-User", user)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func Test_Recipient_Rate_Limiter_Is_Per_Receiver(t *testing.T) {
	req := require.New(t)
	app := newLimitedApp(RecipientRateLimiter(2, time.Minute))

	req.Equal(fiber.StatusCreated, post(t, app, "alice", "bob"))
	req.Equal(fiber.StatusCreated, post(t, app, "alice", "bob"))
	req.Equal(fiber.StatusTooManyRequests, post(t, app, "alice", "bob"))

	// Other inboxes and other senders keep their own budget
	req.Equal(fiber.StatusCreated, post(t, app, "alice", "clara"))
	req.Equal(fiber.StatusCreated, post(t, app, "dave", "bob"))
}

func Test_Rate_Limiter_Is_Per_Caller(t *testing.T) {
	req := require.New(t)
	app := newLimitedApp(RateLimiter(1, time.Minute))

	req.Equal(fiber.StatusCreated, post(t, app, "alice", "bob"))
	req.Equal(fiber.StatusTooManyRequests, post(t, app, "alice", "clara"))
	req.Equal(fiber.StatusCreated, post(t, app, "bob", "alice"))
}
