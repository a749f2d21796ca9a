package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetReferrals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	summary, err := handler.referralService.Summary(user.ID, handler.now())
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(summary)
}

func (handler *Handler) ApplyReferral(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := referralPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	referral, referrer, err := handler.referralService.Apply(user.ID, payload.ReferralCode, handler.now())
	if err != nil {
		return respondServiceError(c, err, "invalid referral code")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"referral": referral,
		"referrer": fiber.Map{"id": referrer.ID, "name": referrer.Name},
	})
}
