package handlers

import (
	"database/sql"
	"errors"
	"fmt"

	applog "qrcatalog/internal/log"
	"qrcatalog/internal/services"
	"qrcatalog/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type QRCodeHandler struct {
	QRs *services.QRCodeService
}

type qrCreateRequest struct {
	ProductID int64 `json:"productId" form:"productId" validate:"required,gt=0"`
}

func (h *QRCodeHandler) List(c *fiber.Ctx) error {
	out, err := h.QRs.List(c.UserContext())
	if err != nil {
		applog.Error(c, "qrcode.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Error retrieving QR codes")
	}
	return c.JSON(out)
}

func (h *QRCodeHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).SendString("QR code not found")
	}
	q, err := h.QRs.Get(c.UserContext(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).SendString("QR code not found")
	}
	if err != nil {
		applog.Error(c, "qrcode.get.fail", err, map[string]any{"qr_id": id})
		return c.Status(fiber.StatusInternalServerError).SendString("Error retrieving QR code")
	}
	return c.JSON(q)
}

func (h *QRCodeHandler) Create(c *fiber.Ctx) error {
	var req qrCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid request body")
	}
	if errs := validate.Struct(req); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"fields": errs})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	id, err := h.QRs.Create(c.UserContext(), req.ProductID)
	if err != nil {
		applog.Error(c, "qrcode.create.fail", err, map[string]any{"product_id": req.ProductID})
		return c.Status(fiber.StatusInternalServerError).SendString("Error creating QR code")
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "qrcode.create", map[string]any{"qr_id": id, "product_id": req.ProductID})
	return c.SendString(fmt.Sprintf("QR code created with ID: %d", id))
}

func (h *QRCodeHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).SendString("QR code not found")
	}
	found, err := h.QRs.Delete(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "qrcode.delete.fail", err, map[string]any{"qr_id": id})
		return c.Status(fiber.StatusInternalServerError).SendString("Error deleting QR code")
	}
	if !found {
		return c.Status(fiber.StatusNotFound).SendString("QR code not found")
	}
	applog.Audit(c, "qrcode.delete", map[string]any{"qr_id": id})
	return c.SendString("QR code deleted successfully")
}
