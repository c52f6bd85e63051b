package handlers

import (
	"errors"
	"furniture-inventory/database"
	"furniture-inventory/validator"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": message})
}

func validationError(c *fiber.Ctx, err error) error {
	var details validator.ValidationErrors
	if errors.As(err, &details) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": details,
		})
	}
	return badRequest(c, "Validation failed")
}

// serverErrorWithDetails logs err and answers with message only; store
// details never reach the client.
func serverErrorWithDetails(c *fiber.Ctx, message string, err error) error {
	requestID := ""
	if id, ok := c.Locals("requestID").(string); ok {
		requestID = id
	}

	logMessage := "server error"
	if database.IsNotConnected(err) {
		logMessage = "data store not connected"
	}

	slog.Error(logMessage,
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"message", message,
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
}
