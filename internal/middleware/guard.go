package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireActive stops disabled accounts whose access token has not expired
// yet. It must run after AuthRequired.
func RequireActive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		if !user.IsActive {
			return Forbidden("Account is disabled")
		}

		return c.Next()
	}
}
