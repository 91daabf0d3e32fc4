package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"qrcatalog/internal/artifacts"
	"qrcatalog/internal/domain"
	applog "qrcatalog/internal/log"
	"qrcatalog/internal/services"
	"qrcatalog/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog   *services.CatalogService
	Creator   *services.ProductCreator
	Artifacts *artifacts.FileStore

	PublicBaseURL string
	QRSize        int
	// Timeout bounds one creation attempt; zero means no deadline.
	Timeout time.Duration
}

var creationMessages = map[services.Reason]string{
	services.ReasonStoreUnavailable:       "Error connecting to the database",
	services.ReasonTransactionStartFailed: "Error starting database transaction",
	services.ReasonInsertFailed:           "Error creating product",
	services.ReasonArtifactWriteFailed:    "Error generating QR code",
	services.ReasonCommitFailed:           "Error committing transaction",
}

// GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		applog.Error(c, "product.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error retrieving products"})
	}
	return c.JSON(ps)
}

// GET /products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	if err != nil {
		applog.Error(c, "product.get.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error retrieving product"})
	}
	return c.JSON(p)
}

// POST /products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var f domain.ProductFields
	if err := c.BodyParser(&f); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body", "error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx := c.UserContext()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	id, err := h.Creator.Create(ctx, f)
	if err != nil {
		msg := "Error creating product"
		fields := map[string]any{}
		var cerr *services.CreationError
		if errors.As(err, &cerr) {
			if m, ok := creationMessages[cerr.Reason]; ok {
				msg = m
			}
			fields["reason"] = string(cerr.Reason)
			fields["state"] = cerr.State.String()
			if cerr.ProductID != 0 {
				fields["product_id"] = cerr.ProductID
			}
		}
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "product.create.fail", err, fields)
		return c.JSON(fiber.Map{"error": msg})
	}

	c.Status(fiber.StatusCreated)
	applog.Audit(c, "product.create", map[string]any{"product_id": id, "artifact": artifacts.Key(id)})
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product created with ID: %d", id),
		"qr_id":   id,
	})
}

// PUT /products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	var f domain.ProductFields
	if err := c.BodyParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	found, err := h.Catalog.UpdateProduct(c.UserContext(), id, f)
	if err != nil {
		applog.Error(c, "product.update.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating product"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product updated successfully"})
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	found, err := h.Catalog.DeleteProduct(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "product.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deleting product"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// GET /products/:id/qr-id downloads the stored QR artifact.
func (h *ProductHandler) DownloadQR(c *fiber.Ctx) error {
	id, ok := h.lookupQR(c)
	if !ok {
		return nil
	}
	return c.Download(h.Artifacts.Path(id), fmt.Sprintf("product_%d_qr.png", id))
}

// GET /products/:id/qr-print
func (h *ProductHandler) PrintQR(c *fiber.Ctx) error {
	id, ok := h.lookupQR(c)
	if !ok {
		return nil
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "product.qr.print.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error retrieving QR code"})
	}
	return render(c, "qr_print", fiber.Map{
		"Product":  p,
		"ImageURL": "/products/" + strconv.FormatInt(id, 10) + "/qr-id",
	})
}

// lookupQR resolves :id to a product that has an artifact, writing the error
// response itself when it returns false.
func (h *ProductHandler) lookupQR(c *fiber.Ctx) (int64, bool) {
	notFound := func() (int64, bool) {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "QR code not found for the product"})
		return 0, false
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound()
	}
	exists, err := h.Catalog.ProductExists(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "product.qr.lookup.fail", err, map[string]any{"product_id": id})
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error retrieving QR code"})
		return 0, false
	}
	if !exists {
		return notFound()
	}
	has, err := h.Artifacts.Exists(id)
	if err != nil {
		applog.Error(c, "product.qr.lookup.fail", err, map[string]any{"product_id": id})
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error retrieving QR code"})
		return 0, false
	}
	if !has {
		return notFound()
	}
	return id, true
}

// GET /products/generate-qr/:productId renders a QR code on the fly; nothing is stored.
func (h *ProductHandler) GenerateQR(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	png, err := artifacts.EncodeQRPayload(artifacts.TargetURL(h.PublicBaseURL+"/products", id), h.QRSize)
	if err != nil {
		applog.Error(c, "product.qr.generate.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error generating QR code"})
	}
	c.Type("png")
	return c.Send(png)
}

// GET /products/product-details/:productId
func (h *ProductHandler) Details(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	exists, err := h.Catalog.ProductExists(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "product.details.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error retrieving product"})
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.Redirect("/products/" + strconv.FormatInt(id, 10))
}
