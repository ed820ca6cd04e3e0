package handlers

import (
	"strings"

	"rms/internal/log"
	"rms/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login checks the till operator's credentials. It issues no session; the
// page only uses the answer to unlock its views.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user := strings.TrimSpace(in.Username)
	if user == "" || in.Password == "" || len(user) > 100 || len(in.Password) > 72 {
		log.Security(c, "auth.login.fail", map[string]any{"username": user, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	op, err := h.Auth.Login(user, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": user})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": op.Username})
	return c.JSON(op)
}
