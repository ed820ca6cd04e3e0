package handlers

import (
	"bytes"
	"strings"

	"rms/internal/log"
	"rms/internal/services"
	"rms/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products?q=&skip=&limit=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := ""
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		var ok bool
		if q, ok = validate.Q(raw); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a valid keyword (letters/numbers only)", "field": "q"})
		}
	}
	skip, limit := validate.Paging(c.Query("skip"), c.Query("limit"))
	out, err := h.Catalog.ListProducts(c.UserContext(), q, skip, limit)
	if err != nil {
		return fail(c, "product.list", err)
	}
	return c.JSON(out)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.get", err)
	}
	return c.JSON(p)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return fail(c, "product.create", err)
	}
	log.Audit(c, "product.create", map[string]any{"product_id": p.ID, "sku": p.SKU})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id; omitted fields keep their value.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	var patch services.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, "product.update", err)
	}
	log.Audit(c, "product.update", map[string]any{
		"product_id":         p.ID,
		"quantity_available": p.QuantityAvailable,
		"low_stock":          p.LowStock(),
	})
	return c.JSON(p)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, "product.delete", err)
	}
	log.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/products/import?charset=windows-1251 with the CSV as the body.
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return badRequest(c, "csv", "csv data is empty")
	}
	res, err := h.Catalog.ImportProducts(c.UserContext(), bytes.NewReader(body), c.Query("charset"))
	if err != nil {
		return fail(c, "product.import", err)
	}
	log.Audit(c, "product.import", map[string]any{"created": res.Created, "updated": res.Updated})
	return c.JSON(res)
}
