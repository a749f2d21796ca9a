package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListAchievements(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	achievements, err := handler.achievementService.ListForUser(user.ID)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"achievements": achievements})
}

func (handler *Handler) ListRewards(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	overview, err := handler.rewardService.Overview(user.ID)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(overview)
}

func (handler *Handler) RedeemReward(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	result, err := handler.rewardService.Redeem(user.ID, c.Params("id"), handler.now())
	if err != nil {
		return respondServiceError(c, err, "reward not found")
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"userReward": result.Redemption,
		"newBalance": result.Balance,
	})
}
