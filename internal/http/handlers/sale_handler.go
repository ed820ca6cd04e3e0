package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "rms/internal/log"
	"rms/internal/services"
	"rms/internal/validate"
)

type SaleHandler struct {
	Sales *services.SaleService
}

// Complete records a sale from the submitted cart. Stock and prices are
// always re-read server side; the client only sends ids and quantities.
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	var req services.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	sale, err := h.Sales.Complete(c.UserContext(), req)
	if err != nil {
		return fail(c, "sale.complete", err)
	}
	applog.Audit(c, "sale.complete", map[string]any{
		"sale_id":     sale.ID,
		"receipt_no":  sale.ReceiptNo,
		"lines":       len(sale.Items),
		"total_cents": sale.TotalCents,
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GET /api/sales?skip=&limit=, newest first.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	skip, limit := validate.Paging(c.Query("skip"), c.Query("limit"))
	out, err := h.Sales.List(c.UserContext(), skip, limit)
	if err != nil {
		return fail(c, "sale.list", err)
	}
	return c.JSON(out)
}

func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	sale, err := h.Sales.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "sale.get", err)
	}
	return c.JSON(sale)
}
