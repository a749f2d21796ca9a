package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Register(services.RegistrationInput{
		Email:        input.Email,
		Password:     input.Password,
		Name:         input.Name,
		ReferralCode: input.ReferralCode,
	}, handler.now())
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
		return respondServiceError(c, err, "")
	}

	token, err := handler.startSession(c, &user, true)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	limiterKey := loginLimiterKey(c, services.NormalizeAuthEmail(input.Email))
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.recordFailure(limiterKey, now)
		}
		return respondServiceError(c, err, "")
	}
	handler.loginLimiter.clear(limiterKey)

	token, err := handler.startSession(c, &user, input.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"user": user, "token": token})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CurrentUser(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"user": user})
}
