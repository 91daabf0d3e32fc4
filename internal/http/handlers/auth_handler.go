package handlers

import (
	"errors"

	"qrcatalog/internal/domain"
	"qrcatalog/internal/log"
	"qrcatalog/internal/services"
	"qrcatalog/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Admins    *services.AdminService
	UploadDir string
}

type registerRequest struct {
	Username string `json:"username" form:"username" validate:"required,username"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
	profileRequest
}

type profileRequest struct {
	FName   string `json:"fname" form:"fname" validate:"max=100"`
	LName   string `json:"lname" form:"lname" validate:"max=100"`
	MName   string `json:"mname" form:"mname" validate:"max=100"`
	Suffix  string `json:"suffix" form:"suffix" validate:"max=20"`
	Age     *int64 `json:"age" form:"age" validate:"omitempty,gte=0,lte=150"`
	Address string `json:"address" form:"address" validate:"max=255"`
	Images  string `json:"images" form:"images"`
}

func (r profileRequest) profile() domain.AdminProfile {
	return domain.AdminProfile{
		FName:   validate.Optional(r.FName),
		LName:   validate.Optional(r.LName),
		MName:   validate.Optional(r.MName),
		Suffix:  validate.Optional(r.Suffix),
		Age:     r.Age,
		Address: validate.Optional(r.Address),
		Images:  validate.Optional(r.Images),
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// POST /admins/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid request body")
	}
	if errs := validate.Struct(req); errs != nil {
		log.Security(c, "validation.fail", map[string]any{"fields": errs})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "fields": errs})
	}

	p := req.profile()
	p.Images = nil
	img, err := saveUpload(c, "image", h.UploadDir)
	if errors.Is(err, errBadUpload) {
		return c.Status(fiber.StatusBadRequest).SendString("unsupported image type")
	}
	if err != nil {
		log.Error(c, "admin.register.upload.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Error registering admin")
	}
	p.Images = img

	id, err := h.Admins.Register(c.UserContext(), req.Username, req.Password, p)
	if err != nil {
		log.Error(c, "admin.register.fail", err, map[string]any{"username": req.Username})
		return c.Status(fiber.StatusInternalServerError).SendString("Error registering admin")
	}
	c.Status(fiber.StatusCreated)
	log.Audit(c, "admin.register", map[string]any{"admin_id": id, "username": req.Username})
	return c.SendString("Admin registered successfully")
}

// POST /admins/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || validate.Struct(req) != nil {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).SendString("Invalid username or password")
	}

	token, a, err := h.Admins.Login(c.UserContext(), req.Username, req.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		return c.Status(fiber.StatusUnauthorized).SendString("Invalid username or password")
	}
	if err != nil {
		log.Error(c, "auth.login.error", err, map[string]any{"username": req.Username})
		return c.Status(fiber.StatusInternalServerError).SendString("Error authenticating admin")
	}

	log.Audit(c, "auth.login.success", map[string]any{"admin_id": a.ID, "username": a.Username})
	return c.JSON(fiber.Map{"token": token})
}
