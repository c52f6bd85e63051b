package handlers

import (
	"errors"
	"furniture-inventory/app"
	"furniture-inventory/metrics"
	"furniture-inventory/models"
	"furniture-inventory/services"
	"furniture-inventory/validator"

	"github.com/gofiber/fiber/v2"
)

const (
	msgServerError  = "Internal server error"
	msgItemNotFound = "The code does not match any registered item"
)

// ListItems returns every item
func ListItems(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := a.ItemService.List(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return success(c, items)
	}
}

// ListItemsByCategory returns the items of one category
func ListItemsByCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Params("category")
		if category == "" {
			return badRequest(c, "category is required")
		}

		items, err := a.ItemService.ListByCategory(c.UserContext(), category)
		if err != nil {
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return success(c, items)
	}
}

// ListItemsByMinPrice returns items priced at or above :value, cheapest first
func ListItemsByMinPrice(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := validator.ParsePrice("value", c.Params("value"))
		if err != nil {
			return validationError(c, err)
		}

		items, err := a.ItemService.ListByMinPrice(c.UserContext(), value)
		if err != nil {
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return success(c, items)
	}
}

// ListItemsByMaxPrice returns items priced at or below :value, most expensive first
func ListItemsByMaxPrice(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := validator.ParsePrice("value", c.Params("value"))
		if err != nil {
			return validationError(c, err)
		}

		items, err := a.ItemService.ListByMaxPrice(c.UserContext(), value)
		if err != nil {
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return success(c, items)
	}
}

// GetItem returns the item with the given code
func GetItem(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := validator.ParseCode("code", c.Params("code"))
		if err != nil {
			return validationError(c, err)
		}

		item, err := a.ItemService.Get(c.UserContext(), code)
		if err != nil {
			if errors.Is(err, services.ErrItemNotFound) {
				return notFound(c, msgItemNotFound)
			}
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return success(c, item)
	}
}

// CreateItem stores a new item
func CreateItem(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateItemRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		// Validate request
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		item, err := a.ItemService.Create(c.UserContext(), &req)
		if err != nil {
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return created(c, item)
	}
}

// UpdateItem merges the request fields into the item with the given code
func UpdateItem(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := validator.ParseCode("code", c.Params("code"))
		if err != nil {
			return validationError(c, err)
		}

		var req models.UpdateItemRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		// Validate request
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		item, err := a.ItemService.Update(c.UserContext(), code, &req)
		if err != nil {
			if errors.Is(err, services.ErrItemNotFound) {
				return notFound(c, msgItemNotFound)
			}
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return success(c, item)
	}
}

// DeleteItem removes the item with the given code and returns it
func DeleteItem(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := validator.ParseCode("code", c.Params("code"))
		if err != nil {
			return validationError(c, err)
		}

		item, err := a.ItemService.Delete(c.UserContext(), code)
		if err != nil {
			if errors.Is(err, services.ErrItemNotFound) {
				return notFound(c, msgItemNotFound)
			}
			return serverErrorWithDetails(c, msgServerError, err)
		}
		return success(c, item)
	}
}

// Health reports whether the data store connection is live
func Health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		live := a.Store != nil && a.Store.IsLive()
		metrics.SetStoreLive(live)
		if !live {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return success(c, fiber.Map{"status": "ok"})
	}
}

// RouteNotFound answers any unmatched method and path
func RouteNotFound(c *fiber.Ctx) error {
	return notFound(c, "Route not found")
}
