package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"rms/internal/services"
	"rms/internal/validate"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// GET /api/reports/sales-summary?from_date=YYYY-MM-DD&to_date=YYYY-MM-DD
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	from, ok := validate.Date(c.Query("from_date"))
	if !ok {
		return badRequest(c, "from_date", "required, YYYY-MM-DD")
	}
	to, ok := validate.Date(c.Query("to_date"))
	if !ok {
		return badRequest(c, "to_date", "required, YYYY-MM-DD")
	}
	sum, err := h.Reports.SalesSummary(c.UserContext(), from, to)
	if err != nil {
		return fail(c, "report.sales_summary", err)
	}
	return c.JSON(sum)
}

// GET /api/reports/low-stock[?threshold=N]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	var threshold *int
	if raw := strings.TrimSpace(c.Query("threshold")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "threshold", "must be an integer")
		}
		threshold = &n
	}
	out, err := h.Reports.LowStock(c.UserContext(), threshold)
	if err != nil {
		return fail(c, "report.low_stock", err)
	}
	return c.JSON(out)
}

func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Reports.Dashboard(c.UserContext())
	if err != nil {
		return fail(c, "report.dashboard", err)
	}
	return c.JSON(d)
}
