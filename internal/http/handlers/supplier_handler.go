package handlers

import (
	applog "rms/internal/log"
	"rms/internal/services"
	"rms/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	Suppliers *services.SupplierService
}

func (h *SupplierHandler) List(c *fiber.Ctx) error {
	skip, limit := validate.Paging(c.Query("skip"), c.Query("limit"))
	out, err := h.Suppliers.List(c.UserContext(), skip, limit)
	if err != nil {
		return fail(c, "supplier.list", err)
	}
	return c.JSON(out)
}

func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	s, err := h.Suppliers.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "supplier.get", err)
	}
	return c.JSON(s)
}

func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in services.SupplierInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.Suppliers.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "supplier.create", err)
	}
	applog.Audit(c, "supplier.create", map[string]any{"supplier_id": s.ID})
	return c.Status(fiber.StatusCreated).JSON(s)
}

func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	var in services.SupplierInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.Suppliers.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, "supplier.update", err)
	}
	applog.Audit(c, "supplier.update", map[string]any{"supplier_id": id})
	return c.JSON(s)
}

// Delete detaches the supplier's products rather than refusing.
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	if err := h.Suppliers.Delete(c.UserContext(), id); err != nil {
		return fail(c, "supplier.delete", err)
	}
	applog.Audit(c, "supplier.delete", map[string]any{"supplier_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
