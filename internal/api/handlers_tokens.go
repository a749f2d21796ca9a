package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetTokens(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	limit, valid := parseLimitQuery(c, defaultTokenPageSize, maxTokenPageSize)
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	}

	handler.ensureDependencies()
	summary, err := handler.rewardService.Tokens(user.ID, limit)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(summary)
}
