package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "kurtikart/internal/log"
	"kurtikart/internal/services"
	"kurtikart/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credsInput struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Name        string `json:"name"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in credsInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	phone, phoneOK := validate.Phone(in.PhoneNumber)
	if !phoneOK {
		return fail(c, fiber.StatusBadRequest, "Please enter a valid phone number")
	}
	if !validate.Password(in.Password) {
		return fail(c, fiber.StatusBadRequest, "Password must be at least 6 characters")
	}
	name, nameOK := validate.Name(in.Name)
	if !nameOK {
		return fail(c, fiber.StatusBadRequest, "Please enter a shorter name")
	}

	_, err := h.Auth.Register(sid, phone, in.Password, name)
	if err == services.ErrPhoneTaken {
		return fail(c, fiber.StatusConflict, "Phone number already registered. Please login instead.")
	}
	if err != nil {
		applog.Error(c, "auth.register.error", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Failed to register. Please try again.")
	}
	applog.Audit(c, "auth.register", map[string]any{"phone": phone})
	return ok(c, "Registration successful")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in credsInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	phone, phoneOK := validate.Phone(in.PhoneNumber)
	if !phoneOK || in.Password == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "Invalid phone number or password")
	}

	if _, err := h.Auth.Login(sid, phone, in.Password); err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"phone": phone})
		return fail(c, fiber.StatusUnauthorized, "Invalid phone number or password")
	}
	applog.Audit(c, "auth.login.success", map[string]any{"phone": phone})
	return ok(c, "Login successful")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return ok(c, "Logged out")
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
	}
	return c.JSON(u)
}
