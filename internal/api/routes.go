package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.RateLimit, handler.Register)
	auth.Post("/login", handler.RateLimit, handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.CurrentUser)

	goals := api.Group("/goals", handler.AuthRequired, handler.RateLimit)
	goals.Get("", handler.ListGoals)
	goals.Post("", handler.CreateGoal)
	goals.Put("/:id", handler.UpdateGoal)
	goals.Post("/:id/complete", handler.CompleteGoal)
	goals.Delete("/:id", handler.DeleteGoal)

	habits := api.Group("/habits", handler.AuthRequired, handler.RateLimit)
	habits.Get("", handler.ListHabits)
	habits.Post("", handler.CreateHabit)
	habits.Delete("/:id", handler.DeleteHabit)
	habits.Put("/:id/completions", handler.SetHabitCompletion)

	tokens := api.Group("/tokens", handler.AuthRequired, handler.RateLimit)
	tokens.Get("", handler.GetTokens)
	tokens.Get("/export", handler.ExportTokens)

	achievements := api.Group("/achievements", handler.AuthRequired, handler.RateLimit)
	achievements.Get("", handler.ListAchievements)

	rewards := api.Group("/rewards", handler.AuthRequired, handler.RateLimit)
	rewards.Get("", handler.ListRewards)
	rewards.Post("/:id/redeem", handler.RedeemReward)

	referrals := api.Group("/referrals", handler.AuthRequired, handler.RateLimit)
	referrals.Get("", handler.GetReferrals)
	referrals.Post("", handler.ApplyReferral)

	limits := api.Group("/limits", handler.AuthRequired, handler.RateLimit)
	limits.Get("", handler.GetUsage)
	limits.Post("", handler.IncrementUsage)

	subscription := api.Group("/subscription", handler.AuthRequired, handler.RateLimit)
	subscription.Get("", handler.GetSubscription)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
