package handlers

import (
	applog "rms/internal/log"
	"rms/internal/services"
	"rms/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	Customers *services.CustomerService
}

func (h *CustomerHandler) List(c *fiber.Ctx) error {
	skip, limit := validate.Paging(c.Query("skip"), c.Query("limit"))
	out, err := h.Customers.List(c.UserContext(), skip, limit)
	if err != nil {
		return fail(c, "customer.list", err)
	}
	return c.JSON(out)
}

func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	cu, err := h.Customers.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "customer.get", err)
	}
	return c.JSON(cu)
}

func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in services.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cu, err := h.Customers.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "customer.create", err)
	}
	applog.Audit(c, "customer.create", map[string]any{"customer_id": cu.ID})
	return c.Status(fiber.StatusCreated).JSON(cu)
}

func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	var in services.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cu, err := h.Customers.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, "customer.update", err)
	}
	applog.Audit(c, "customer.update", map[string]any{"customer_id": id})
	return c.JSON(cu)
}

func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	if err := h.Customers.Delete(c.UserContext(), id); err != nil {
		return fail(c, "customer.delete", err)
	}
	applog.Audit(c, "customer.delete", map[string]any{"customer_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
