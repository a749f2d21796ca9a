package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowy/internal/services"
)

const habitNotFound = "habit not found"

func (handler *Handler) ListHabits(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	habits, err := handler.habitService.List(user.ID)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"habits": habits})
}

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := habitPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	habit, awards, err := handler.habitService.Create(user.ID, services.HabitInput{
		Name:        payload.Name,
		Description: payload.Description,
		Frequency:   payload.Frequency,
		TargetCount: payload.TargetCount,
	}, handler.now())
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"habit": habit, "awards": awards})
}

// SetHabitCompletion records one calendar day. The body defaults to today and
// completed=true.
func (handler *Handler) SetHabitCompletion(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := habitCompletionPayload{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}
	now := handler.now()
	day, err := completionDay(payload.Date, now, handler.location)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	completed := true
	if payload.Completed != nil {
		completed = *payload.Completed
	}

	handler.ensureDependencies()
	result, err := handler.habitService.SetCompletion(user.ID, c.Params("id"), services.HabitDay{
		Date:      day,
		Completed: completed,
		Notes:     payload.Notes,
	}, now)
	if err != nil {
		return respondServiceError(c, err, habitNotFound)
	}
	return c.JSON(result)
}

func (handler *Handler) DeleteHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	if err := handler.habitService.Delete(user.ID, c.Params("id")); err != nil {
		return respondServiceError(c, err, habitNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
