package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kurtikart/internal/domain"
	"kurtikart/internal/services"
)

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			MaxAge:   7 * 24 * 60 * 60,
		})
	}
	return sid
}

// AttachUser resolves the sid cookie to a user and stashes it in locals.
// Anonymous and expired sessions pass through untouched.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func currentUserID(c *fiber.Ctx) string {
	if u := currentUser(c); u != nil {
		return u.ID
	}
	return ""
}
