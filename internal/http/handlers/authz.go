package handlers

import (
	"strings"

	applog "qrcatalog/internal/log"
	"qrcatalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin accepts "Authorization: <token>" or "Authorization: Bearer <token>".
func RequireAdmin(admins *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if len(tok) > 7 && strings.EqualFold(tok[:7], "bearer ") {
			tok = strings.TrimSpace(tok[7:])
		}
		if tok == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "missing_token"})
			return c.Status(fiber.StatusForbidden).SendString("Token is required")
		}
		a, err := admins.CurrentAdmin(c.UserContext(), tok)
		if err != nil || a == nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "invalid_token"})
			return c.Status(fiber.StatusUnauthorized).SendString("Invalid token")
		}
		c.Locals("admin", a)
		c.Locals(applog.AdminIDLocal, a.ID)
		return c.Next()
	}
}
