package handlers

import (
	"errors"
	"fmt"
	"strings"

	applog "rms/internal/log"
	"rms/internal/services"
	"rms/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// fail turns a service error into a JSON response. Anything it does not
// recognize goes to the app ErrorHandler, which logs it and answers 500.
func fail(c *fiber.Ctx, action string, err error) error {
	var (
		ve *services.ValidationError
		se *services.InsufficientStockError
	)
	switch {
	case errors.As(err, &se):
		applog.Security(c, action+".fail", map[string]any{
			"product_id": se.ProductID, "requested": se.Requested, "available": se.Available,
		})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": se.Error(), "product_id": se.ProductID})
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"field": ve.Field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		applog.Info(c, action+".conflict", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflictMsg(err)})
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

// conflictMsg keeps the leading human part of a conflict error and drops
// the driver detail.
func conflictMsg(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+services.ErrConflict.Error())
	if strings.Contains(msg, ": ") {
		return "request conflicts with existing data"
	}
	return msg
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": field + ": " + msg, "field": field})
}

// paramID reads the positive numeric :id route parameter.
func paramID(c *fiber.Ctx) (int64, bool) {
	return validate.ID(c.Params("id"))
}

func badID(c *fiber.Ctx) error {
	return badRequest(c, "id", "must be a positive integer")
}

func badBody(c *fiber.Ctx) error {
	return badRequest(c, "body", "malformed request body")
}
