package api

import (
	"github.com/gofiber/fiber/v2"
)

const goalNotFound = "goal not found"

func (handler *Handler) ListGoals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	goals, err := handler.goalService.List(user.ID)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"goals": goals})
}

func (handler *Handler) CreateGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := goalPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input, err := payload.toInput(handler.location)
	if err != nil {
		return respondServiceError(c, err, "")
	}

	handler.ensureDependencies()
	goal, awards, err := handler.goalService.Create(user.ID, input, handler.now())
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"goal": goal, "awards": awards})
}

func (handler *Handler) UpdateGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := goalPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	update, err := payload.toUpdate(handler.location)
	if err != nil {
		return respondServiceError(c, err, "")
	}

	handler.ensureDependencies()
	goal, awards, err := handler.goalService.Update(user.ID, c.Params("id"), update, handler.now())
	if err != nil {
		return respondServiceError(c, err, goalNotFound)
	}
	return c.JSON(fiber.Map{"goal": goal, "awards": awards})
}

func (handler *Handler) CompleteGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	goal, awards, err := handler.goalService.Complete(user.ID, c.Params("id"), handler.now())
	if err != nil {
		return respondServiceError(c, err, goalNotFound)
	}
	return c.JSON(fiber.Map{"goal": goal, "awards": awards})
}

func (handler *Handler) DeleteGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	if err := handler.goalService.Delete(user.ID, c.Params("id")); err != nil {
		return respondServiceError(c, err, goalNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
