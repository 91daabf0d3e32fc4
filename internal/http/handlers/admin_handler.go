package handlers

import (
	"errors"

	applog "qrcatalog/internal/log"
	"qrcatalog/internal/services"
	"qrcatalog/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Admins    *services.AdminService
	UploadDir string
}

// PUT /admins/:adminId
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("adminId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid request body")
	}
	if errs := validate.Struct(req); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"fields": errs})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "fields": errs})
	}

	p := req.profile()
	// A new upload replaces the image; otherwise the submitted reference is kept.
	img, err := saveUpload(c, "image", h.UploadDir)
	if errors.Is(err, errBadUpload) {
		return c.Status(fiber.StatusBadRequest).SendString("unsupported image type")
	}
	if err != nil {
		applog.Error(c, "admin.update.upload.fail", err, map[string]any{"target_admin": id})
		return c.Status(fiber.StatusInternalServerError).SendString("Error updating admin profile")
	}
	if img != nil {
		p.Images = img
	}

	found, err := h.Admins.UpdateProfile(c.UserContext(), id, p)
	if err != nil {
		applog.Error(c, "admin.update.fail", err, map[string]any{"target_admin": id})
		return c.Status(fiber.StatusInternalServerError).SendString("Error updating admin profile")
	}
	if !found {
		return c.Status(fiber.StatusNotFound).SendString("Admin not found")
	}
	applog.Audit(c, "admin.update", map[string]any{"target_admin": id})
	return c.SendString("Admin profile updated successfully")
}
