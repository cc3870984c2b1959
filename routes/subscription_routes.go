package routes

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/handlers"
	"github.com/KarimShetewy/Ikhtaberni-Platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func SubscriptionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	subs := api.Group("/subscriptions", middleware.Protected(), middleware.StudentRequired())
	subs.Post("/:teacherId", handlers.SubscribeToTeacher)
	subs.Get("", handlers.ListMySubscriptions)
	subs.Delete("/:subscriptionId", handlers.CancelMySubscription)
}
