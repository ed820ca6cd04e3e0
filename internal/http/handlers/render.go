package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// shown in the page footer so a support request can be matched to the log
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}

type PageHandler struct {
	TaxRate float64
}

// GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	pct := decimal.NewFromFloat(h.TaxRate).Shift(2).String()
	return render(c, "index", fiber.Map{"TaxPercent": pct})
}

// NotFound answers JSON under /api and the notfound page elsewhere.
func (h *PageHandler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
}
