package routes

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/handlers"
	"github.com/KarimShetewy/Ikhtaberni-Platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func AttemptRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	attempts := api.Group("/attempts", middleware.Protected(), middleware.StudentRequired())
	attempts.Post("/:attemptId/submit", handlers.SubmitAttempt)
	attempts.Get("/:attemptId", handlers.GetAttemptResult)
	attempts.Get("/:attemptId/certificate", handlers.GetAttemptCertificate)
}
