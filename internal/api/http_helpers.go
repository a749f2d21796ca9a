package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondServiceError maps a service error to its HTTP status. notFound names
// the missing resource in the 404 message.
func respondServiceError(c *fiber.Ctx, err error, notFound string) error {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		payload := fiber.Map{"error": validation.Message}
		if validation.Field != "" {
			payload["field"] = validation.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(payload)
	case errors.Is(err, services.ErrNotFound):
		if notFound == "" {
			notFound = "not found"
		}
		return apiError(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, services.ErrUnauthorized):
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already exists")
	case errors.Is(err, services.ErrAlreadyCompleted):
		return apiError(c, fiber.StatusConflict, "goal already completed")
	case errors.Is(err, services.ErrAlreadyUnlocked):
		return apiError(c, fiber.StatusConflict, "achievement already unlocked")
	case errors.Is(err, services.ErrAlreadyRedeemed):
		return apiError(c, fiber.StatusConflict, "reward already redeemed")
	case errors.Is(err, services.ErrAlreadyReferred):
		return apiError(c, fiber.StatusBadRequest, "user already has a referrer")
	case errors.Is(err, services.ErrInsufficientBalance):
		return apiError(c, fiber.StatusBadRequest, "Insufficient FLWY tokens")
	case errors.Is(err, services.ErrLimitExceeded):
		return apiError(c, fiber.StatusTooManyRequests, "usage limit exceeded")
	default:
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func parseLimitQuery(c *fiber.Ctx, fallback int, max int) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, false
	}
	if value > max {
		value = max
	}
	return value, true
}
