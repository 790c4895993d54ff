package handler

import (
	"errors"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to read the user info set by the auth middleware
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}

func getUserName(c *fiber.Ctx) string {
	userName, ok := c.Locals("user_name").(string)
	if !ok || userName == "" {
		return "Unknown"
	}
	return userName
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail, _ := c.Locals("user_email").(string)
	return userEmail
}

func actorFrom(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:    getUserID(c),
		Name:  getUserName(c),
		Email: getUserEmail(c),
	}
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// statusFor maps catalog errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrDuplicateSlug):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNegativeStock):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
