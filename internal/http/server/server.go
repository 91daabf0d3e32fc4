// Package server assembles the fiber application: middleware, routes and the
// JSON error surface.
package server

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qrcatalog/internal/config"
	"qrcatalog/internal/http/handlers"
	applog "qrcatalog/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	jsoniter "github.com/json-iterator/go"
)

type Options struct {
	// AccessLog enables the fiber request logger.
	AccessLog bool
	// RateLimit is the per-IP request budget per minute; zero disables it.
	RateLimit int
}

func New(cfg config.Config, deps *handlers.Deps, opts Options) (*fiber.App, error) {
	uploadDir, err := filepath.Abs(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}

	engine := html.New(cfg.TemplateDir, ".html")
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    cfg.BodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New())
	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/uploads/")
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.global.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		}))
	}

	// ---------- Uploaded images ----------
	// Guarded to avoid traversal
	app.Get("/uploads/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(uploadDir, clean))
	})

	// ---------- Products ----------
	ph := deps.ProductHandler
	products := app.Group("/products")
	products.Get("/", ph.List)
	products.Post("/", ph.Create)
	products.Get("/generate-qr/:productId", ph.GenerateQR)
	products.Get("/product-details/:productId", ph.Details)
	products.Get("/:id", ph.Get)
	products.Put("/:id", ph.Update)
	products.Delete("/:id", ph.Delete)
	products.Get("/:id/qr-id", ph.DownloadQR)
	products.Get("/:id/qr-print", ph.PrintQR)

	// ---------- QR code records ----------
	qh := deps.QRCodeHandler
	qrcodes := app.Group("/qrcodes")
	qrcodes.Get("/", qh.List)
	qrcodes.Get("/:id", qh.Get)
	qrcodes.Post("/", qh.Create)
	qrcodes.Delete("/:id", qh.Delete)

	// ---------- Admins ----------
	guard := handlers.RequireAdmin(deps.AdminService)
	admins := app.Group("/admins")
	admins.Post("/register", deps.AuthHandler.Register)
	admins.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many attempts. Please try again later.")
		},
	}), deps.AuthHandler.Login)
	admins.Get("/qrcodes", guard, qh.List)
	admins.Get("/qrcodes/:id", guard, qh.Get)
	admins.Post("/qrcodes", guard, qh.Create)
	admins.Delete("/qrcodes/:id", guard, qh.Delete)
	admins.Put("/:adminId", guard, deps.AdminHandler.Update)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	return app, nil
}

// errorHandler logs the cause and answers with a status-appropriate message that
// never includes internal details.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	c.Status(code)
	applog.Error(c, "server.error", err, nil)
	msg := "Something went wrong. Please try again."
	if code < fiber.StatusInternalServerError {
		msg = statusMessage(code)
	}
	return c.JSON(fiber.Map{"error": msg})
}

func statusMessage(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusRequestEntityTooLarge:
		return "Request body too large"
	case fiber.StatusMethodNotAllowed:
		return "Method not allowed"
	default:
		return "Bad request"
	}
}
