package handlers

import (
	"errors"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"rms/internal/config"
	applog "rms/internal/log"
)

const (
	maxBody       = 1 << 20 // 1 MiB
	globalRate    = 120
	loginAttempts = 5
)

// ErrorHandler logs unexpected errors and answers with a generic message.
// Client errors raised by Fiber itself (413, 405, ...) keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
}

// NewApp builds the Fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, deps *Deps) *fiber.App {
	engine := html.New(filepath.Join(cfg.WebDir, "templates"), ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = maxBody

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("started", time.Now())
		return c.Next()
	})
	app.Use(logger.New(logger.Config{Output: log.Writer()}))
	app.Use(fiberrecover.New())
	app.Use(helmet.New(helmet.Config{
		// the page loads its own script and stylesheet only
		ContentSecurityPolicy: "default-src 'self'",
	}))
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        globalRate,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || p == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Static assets & page ----------
	app.Static("/static", filepath.Join(cfg.WebDir, "static"))
	app.Get("/", deps.PageHandler.Index)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := deps.DB.PingContext(c.UserContext()); err != nil {
			applog.Error(c, "health.db", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")

	// Login (throttled)
	api.Post("/login", limiter.New(limiter.Config{
		Max:        loginAttempts,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)

	// Products
	api.Get("/products", deps.ProductHandler.List)
	api.Post("/products", deps.ProductHandler.Create)
	api.Post("/products/import", deps.ProductHandler.Import)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Put("/products/:id", deps.ProductHandler.Update)
	api.Delete("/products/:id", deps.ProductHandler.Delete)

	// Suppliers
	api.Get("/suppliers", deps.SupplierHandler.List)
	api.Post("/suppliers", deps.SupplierHandler.Create)
	api.Get("/suppliers/:id", deps.SupplierHandler.Get)
	api.Put("/suppliers/:id", deps.SupplierHandler.Update)
	api.Delete("/suppliers/:id", deps.SupplierHandler.Delete)

	// Customers
	api.Get("/customers", deps.CustomerHandler.List)
	api.Post("/customers", deps.CustomerHandler.Create)
	api.Get("/customers/:id", deps.CustomerHandler.Get)
	api.Put("/customers/:id", deps.CustomerHandler.Update)
	api.Delete("/customers/:id", deps.CustomerHandler.Delete)

	// Sales
	api.Get("/sales", deps.SaleHandler.List)
	api.Post("/sales", deps.SaleHandler.Complete)
	api.Get("/sales/:id", deps.SaleHandler.Get)

	// Reports
	api.Get("/reports/sales-summary", deps.ReportHandler.SalesSummary)
	api.Get("/reports/low-stock", deps.ReportHandler.LowStock)
	api.Get("/reports/dashboard", deps.ReportHandler.Dashboard)

	// 404
	app.Use(deps.PageHandler.NotFound)

	return app
}
