package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/services"
)

func (handler *Handler) GetUsage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	decision, err := handler.usageService.Status(user.ID, c.Query("feature"), handler.now())
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(decision)
}

// IncrementUsage consumes quota. A rejection answers 429 with the counters
// the client needs to offer an upgrade.
func (handler *Handler) IncrementUsage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := usagePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	decision, err := handler.usageService.CheckAndIncrement(user.ID, payload.Feature, payload.amount(), handler.now())
	if errors.Is(err, services.ErrLimitExceeded) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":        "Limit exceeded",
			"feature":      decision.Feature,
			"currentCount": decision.CurrentCount,
			"limit":        decision.Limit,
			"remaining":    decision.Remaining,
			"canUpgrade":   decision.CanUpgrade,
		})
	}
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(decision)
}

func (handler *Handler) GetSubscription(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	summary, err := handler.usageService.Subscription(user.ID, handler.now())
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(summary)
}
