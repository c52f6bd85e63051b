package setup

import (
	"furniture-inventory/app"
	"furniture-inventory/handlers"
	"furniture-inventory/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	// Operational routes
	fiberApp.Get("/health", handlers.Health(application))
	fiberApp.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	items := fiberApp.Group("/items")

	items.Get("/", handlers.ListItems(application))
	items.Get("/category/:category", handlers.ListItemsByCategory(application))
	items.Get("/price-min/:value", handlers.ListItemsByMinPrice(application))
	items.Get("/price-max/:value", handlers.ListItemsByMaxPrice(application))
	items.Get("/:code", handlers.GetItem(application))
	items.Post("/", handlers.CreateItem(application))
	items.Put("/:code", handlers.UpdateItem(application))
	items.Delete("/:code", handlers.DeleteItem(application))

	// Anything left over
	fiberApp.Use(handlers.RouteNotFound)
}
