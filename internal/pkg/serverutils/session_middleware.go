package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionCookieName = "session_key"

// SessionMiddleware gives every visitor a stable anonymous session key via
// cookie. The key scopes chat history and the flagged-state tracker.
func SessionMiddleware(ctx *fiber.Ctx) error {
	key := ctx.Cookies(SessionCookieName)
	if key == "" {
		key = uuid.NewString()
		ctx.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    key,
			Expires:  time.Now().Add(365 * 24 * time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
	ctx.Locals("session_key", key)
	return ctx.Next()
}
