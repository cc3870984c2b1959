package routes

import (
	"github.com/KarimShetewy/Ikhtaberni-Platform/handlers"
	"github.com/KarimShetewy/Ikhtaberni-Platform/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/users", handlers.ListUsers)
	admin.Delete("/users/:userId", handlers.DeactivateUser)
	admin.Delete("/subscriptions/:subscriptionId", handlers.AdminCancelSubscription)
}
